package external

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Quote is the most recent benchmark USD price recorded for a symbol.
type Quote struct {
	Symbol    string          `json:"symbol" db:"symbol"`
	PriceUSD  decimal.Decimal `json:"priceUsd" db:"price_usd"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// QuoteRepository records the latest benchmark quotes, one row per symbol.
type QuoteRepository interface {
	SaveQuote(ctx context.Context, symbol string, priceUSD decimal.Decimal) error
	GetAllQuotes(ctx context.Context) ([]Quote, error)
}

// PgQuoteRepository stores quotes in the benchmark_quotes table.
type PgQuoteRepository struct {
	pool *pgxpool.Pool
}

// NewPgQuoteRepository creates a new PostgreSQL quote repository.
func NewPgQuoteRepository(pool *pgxpool.Pool) *PgQuoteRepository {
	return &PgQuoteRepository{pool: pool}
}

func (r *PgQuoteRepository) SaveQuote(ctx context.Context, symbol string, priceUSD decimal.Decimal) error {
	const upsert = `
		INSERT INTO benchmark_quotes (symbol, price_usd, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (symbol) DO UPDATE SET price_usd = EXCLUDED.price_usd, updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, upsert, symbol, priceUSD); err != nil {
		return fmt.Errorf("recording %s benchmark: %w", symbol, err)
	}
	return nil
}

func (r *PgQuoteRepository) GetAllQuotes(ctx context.Context) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol, price_usd, updated_at FROM benchmark_quotes ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("querying benchmarks: %w", err)
	}
	quotes, err := pgx.CollectRows(rows, pgx.RowToStructByName[Quote])
	if err != nil {
		return nil, fmt.Errorf("reading benchmarks: %w", err)
	}
	return quotes, nil
}
