package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jgrizzled/melon-list/internal/listing"
	"github.com/jgrizzled/melon-list/internal/snapshot"
)

type mockSnapshotRepo struct {
	snapshots     []snapshot.Snapshot
	lastListLimit int
	saved         json.RawMessage
}

func (m *mockSnapshotRepo) Save(_ context.Context, _ time.Time, _ string, data json.RawMessage) error {
	m.saved = data
	return nil
}

func (m *mockSnapshotRepo) GetLatest(_ context.Context) (*snapshot.Snapshot, error) {
	if len(m.snapshots) == 0 {
		return nil, snapshot.ErrNotFound
	}
	return &m.snapshots[0], nil
}

func (m *mockSnapshotRepo) GetByDate(_ context.Context, date time.Time) (*snapshot.Snapshot, error) {
	for _, s := range m.snapshots {
		if s.SnapshotDate.Equal(date) {
			return &s, nil
		}
	}
	return nil, snapshot.ErrNotFound
}

func (m *mockSnapshotRepo) List(_ context.Context, limit int) ([]snapshot.Snapshot, error) {
	m.lastListLimit = limit
	if limit > len(m.snapshots) {
		limit = len(m.snapshots)
	}
	return m.snapshots[:limit], nil
}

type mockListingSource struct {
	listing listing.Listing
	err     error
}

func (m *mockListingSource) Reload() {}

func (m *mockListingSource) Listing(_ context.Context, _ string) (listing.Listing, error) {
	return m.listing, m.err
}

func newSnapshotHandler(repo *mockSnapshotRepo) *Handler {
	return NewHandler(snapshot.NewService(&mockListingSource{}, repo))
}

func TestGetLatestSnapshotSuccess(t *testing.T) {
	data, _ := json.Marshal(listing.Listing{Currency: "ETH"})
	repo := &mockSnapshotRepo{
		snapshots: []snapshot.Snapshot{
			{ID: 1, SnapshotDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Currency: "ETH", Data: data},
		},
	}
	handler := newSnapshotHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/latest", nil)
	w := httptest.NewRecorder()
	handler.GetLatestSnapshot(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var result snapshot.Snapshot
	json.NewDecoder(w.Body).Decode(&result)
	if result.ID != 1 || result.Currency != "ETH" {
		t.Errorf("snapshot = %+v", result)
	}
}

func TestGetLatestSnapshotNotFound(t *testing.T) {
	handler := newSnapshotHandler(&mockSnapshotRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/latest", nil)
	w := httptest.NewRecorder()
	handler.GetLatestSnapshot(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetSnapshotByDate(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	repo := &mockSnapshotRepo{snapshots: []snapshot.Snapshot{{ID: 1, SnapshotDate: date, Data: json.RawMessage(`{}`)}}}
	handler := newSnapshotHandler(repo)

	tests := []struct {
		name string
		date string
		want int
	}{
		{"found", "2024-01-15", http.StatusOK},
		{"missing", "2024-01-16", http.StatusNotFound},
		{"invalid", "not-a-date", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/"+tt.date, nil)
			req.SetPathValue("date", tt.date)
			w := httptest.NewRecorder()
			handler.GetSnapshotByDate(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestListSnapshotsLimit(t *testing.T) {
	data := json.RawMessage(`{}`)
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"capped at 365", "?limit=9999", 365},
		{"negative falls back to default", "?limit=-5", 30},
		{"garbage falls back to default", "?limit=abc", 30},
		{"explicit", "?limit=10", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSnapshotRepo{snapshots: []snapshot.Snapshot{{ID: 1, Data: data}, {ID: 2, Data: data}}}
			handler := newSnapshotHandler(repo)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.ListSnapshots(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if repo.lastListLimit != tt.wantLimit {
				t.Errorf("limit passed to repo = %d, want %d", repo.lastListLimit, tt.wantLimit)
			}
			var result []snapshot.Snapshot
			json.NewDecoder(w.Body).Decode(&result)
			if len(result) != 2 {
				t.Errorf("snapshot count = %d, want 2", len(result))
			}
		})
	}
}

func TestListSnapshotsEmptyIsArray(t *testing.T) {
	handler := newSnapshotHandler(&mockSnapshotRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", nil)
	w := httptest.NewRecorder()
	handler.ListSnapshots(w, req)

	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestGenerateSnapshot(t *testing.T) {
	repo := &mockSnapshotRepo{}
	source := &mockListingSource{listing: listing.Listing{Currency: "BTC", Total: 1, Rows: []listing.Row{{Rank: 1, Name: "Alpha"}}}}
	handler := NewHandler(snapshot.NewService(source, repo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/generate", nil)
	w := httptest.NewRecorder()
	handler.GenerateSnapshot(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if repo.saved == nil {
		t.Error("expected listing to be saved")
	}
	var result listing.Listing
	json.NewDecoder(w.Body).Decode(&result)
	if result.Currency != "BTC" || len(result.Rows) != 1 {
		t.Errorf("listing = %+v", result)
	}
}

func TestGenerateSnapshotFailure(t *testing.T) {
	source := &mockListingSource{err: errors.New("boom")}
	handler := NewHandler(snapshot.NewService(source, &mockSnapshotRepo{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/generate", nil)
	w := httptest.NewRecorder()
	handler.GenerateSnapshot(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestListSnapshotsOmitsData(t *testing.T) {
	repo := &mockSnapshotRepo{snapshots: []snapshot.Snapshot{{ID: 1, Data: json.RawMessage(`{"rows":[]}`)}}}
	handler := newSnapshotHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", nil)
	w := httptest.NewRecorder()
	handler.ListSnapshots(w, req)

	var result []snapshot.Snapshot
	json.NewDecoder(w.Body).Decode(&result)
	if len(result) != 1 || result[0].Data != nil {
		t.Errorf("list entries should not carry data: %+v", result)
	}
	if string(repo.snapshots[0].Data) != `{"rows":[]}` {
		t.Error("listing must not modify repository data")
	}
}
