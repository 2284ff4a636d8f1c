package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jgrizzled/melon-list/internal/listing"
)

// ListingSource renders the current fund listing.
type ListingSource interface {
	Reload()
	Listing(ctx context.Context, query string) (listing.Listing, error)
}

// Service archives rendered listings and serves them back.
type Service struct {
	source ListingSource
	repo   Repository
}

// NewService creates a new snapshot Service.
func NewService(source ListingSource, repo Repository) *Service {
	return &Service{source: source, repo: repo}
}

// Generate reloads the fund list, renders the full listing and stores it under date.
func (s *Service) Generate(ctx context.Context, date time.Time) (listing.Listing, error) {
	s.source.Reload()
	l, err := s.source.Listing(ctx, "")
	if err != nil {
		return listing.Listing{}, fmt.Errorf("rendering listing: %w", err)
	}

	data, err := json.Marshal(l)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("marshaling listing: %w", err)
	}

	if err := s.repo.Save(ctx, utcDay(date), l.Currency, data); err != nil {
		return listing.Listing{}, fmt.Errorf("saving snapshot: %w", err)
	}
	return l, nil
}

// GetLatest retrieves the most recent snapshot.
func (s *Service) GetLatest(ctx context.Context) (*Snapshot, error) {
	return s.repo.GetLatest(ctx)
}

// GetByDate retrieves the snapshot of a specific date.
func (s *Service) GetByDate(ctx context.Context, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, date)
}

// List retrieves recent snapshots, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, limit)
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
