package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jgrizzled/melon-list/internal/snapshot"
)

const (
	defaultSnapshotLimit = 30
	maxSnapshotLimit     = 365
)

// Handler serves the archive of daily listing snapshots.
type Handler struct {
	snapshots *snapshot.Service
}

// NewHandler creates a new snapshot handler.
func NewHandler(snapshots *snapshot.Service) *Handler {
	return &Handler{snapshots: snapshots}
}

// GetLatestSnapshot handles GET /api/v1/snapshots/latest.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	s, err := h.snapshots.GetLatest(r.Context())
	h.respond(w, s, err, "latest")
}

// GetSnapshotByDate handles GET /api/v1/snapshots/{date}.
func (h *Handler) GetSnapshotByDate(w http.ResponseWriter, r *http.Request) {
	day := r.PathValue("date")
	date, err := time.Parse(time.DateOnly, day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	s, err := h.snapshots.GetByDate(r.Context(), date)
	h.respond(w, s, err, day)
}

func (h *Handler) respond(w http.ResponseWriter, s *snapshot.Snapshot, err error, which string) {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		writeError(w, http.StatusNotFound, "no snapshot for "+which)
	case err != nil:
		slog.Error("failed to read snapshot", "snapshot", which, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, s)
	}
}

// ListSnapshots handles GET /api/v1/snapshots?limit=.
// Data is left out of list entries; fetch a single date for the listing.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.snapshots.List(r.Context(), snapshotLimit(r))
	if err != nil {
		slog.Error("failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]snapshot.Snapshot, len(snapshots))
	for i, s := range snapshots {
		s.Data = nil
		out[i] = s
	}
	writeJSON(w, http.StatusOK, out)
}

func snapshotLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultSnapshotLimit
	}
	return min(n, maxSnapshotLimit)
}

// GenerateSnapshot handles POST /api/v1/snapshots/generate.
func (h *Handler) GenerateSnapshot(w http.ResponseWriter, r *http.Request) {
	l, err := h.snapshots.Generate(r.Context(), time.Now())
	if err != nil {
		slog.Error("failed to generate snapshot", "error", err)
		writeDomainError(w, err, "failed to generate snapshot")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
