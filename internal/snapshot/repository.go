package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested snapshot was not found.
var ErrNotFound = errors.New("snapshot not found")

// defaultListLimit applies when List is called without a positive limit.
const defaultListLimit = 30

// Snapshot is one archived fund listing. Data holds the listing as JSON.
type Snapshot struct {
	ID           int             `json:"id" db:"id"`
	SnapshotDate time.Time       `json:"snapshotDate" db:"snapshot_date"`
	Currency     string          `json:"currency" db:"currency"`
	Data         json.RawMessage `json:"data" db:"data"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// Repository stores at most one snapshot per day.
type Repository interface {
	Save(ctx context.Context, date time.Time, currency string, data json.RawMessage) error
	GetLatest(ctx context.Context) (*Snapshot, error)
	GetByDate(ctx context.Context, date time.Time) (*Snapshot, error)
	List(ctx context.Context, limit int) ([]Snapshot, error)
}

// PgRepository keeps snapshots in the listing_snapshots table.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const snapshotColumns = `id, snapshot_date, currency, data, created_at`

// Save replaces any snapshot already stored for date.
func (r *PgRepository) Save(ctx context.Context, date time.Time, currency string, data json.RawMessage) error {
	const upsert = `
		INSERT INTO listing_snapshots (snapshot_date, currency, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (snapshot_date) DO UPDATE
		SET currency = EXCLUDED.currency, data = EXCLUDED.data, created_at = NOW()`
	if _, err := r.pool.Exec(ctx, upsert, date, currency, data); err != nil {
		return fmt.Errorf("saving snapshot of %s: %w", date.Format(time.DateOnly), err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context) (*Snapshot, error) {
	return r.one(ctx, `SELECT `+snapshotColumns+` FROM listing_snapshots ORDER BY snapshot_date DESC LIMIT 1`)
}

func (r *PgRepository) GetByDate(ctx context.Context, date time.Time) (*Snapshot, error) {
	return r.one(ctx, `SELECT `+snapshotColumns+` FROM listing_snapshots WHERE snapshot_date = $1`, date)
}

// List returns up to limit snapshots, newest first.
func (r *PgRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM listing_snapshots ORDER BY snapshot_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	snapshots, err := pgx.CollectRows(rows, pgx.RowToStructByName[Snapshot])
	if err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *PgRepository) one(ctx context.Context, query string, args ...any) (*Snapshot, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Snapshot])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return s, nil
}
