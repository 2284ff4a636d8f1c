package price

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// ErrRatesNotReady is returned before the first successful Refresh.
var ErrRatesNotReady = fmt.Errorf("rate table not built: %w", domain.ErrRateNotFound)

// BenchmarkSource fetches the external ETH and BTC USD prices.
type BenchmarkSource interface {
	FetchBenchmarkPrices(ctx context.Context) (domain.BenchmarkPrices, error)
}

// OracleSource fetches an on-chain price feed snapshot for tokens.
type OracleSource interface {
	FetchOracleQuotes(ctx context.Context, tokens []domain.Token) (domain.OracleQuotes, error)
}

// Service builds exchange rate tables and publishes the latest one.
type Service struct {
	benchmarks BenchmarkSource
	oracle     OracleSource
	current    tableCache
}

// NewService creates a new price Service.
func NewService(benchmarks BenchmarkSource, oracle OracleSource) *Service {
	if benchmarks == nil || oracle == nil {
		panic("price.NewService: sources must not be nil")
	}
	return &Service{
		benchmarks: benchmarks,
		oracle:     oracle,
	}
}

// Refresh fetches both inputs concurrently, builds a table and publishes it.
// Any failure leaves the previously published table in place.
func (s *Service) Refresh(ctx context.Context) (*Table, error) {
	var (
		bench  domain.BenchmarkPrices
		quotes domain.OracleQuotes
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bench, err = s.benchmarks.FetchBenchmarkPrices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		quotes, err = s.oracle.FetchOracleQuotes(gctx, domain.Tokens())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching rate inputs: %w", err)
	}

	table, err := BuildTable(bench, quotes)
	if err != nil {
		return nil, fmt.Errorf("building rate table: %w", err)
	}
	s.current.set(table)

	slog.Info("exchange rate table built",
		"quote", table.QuoteSymbol(),
		"symbols", len(table.Symbols()),
		"ethUsd", bench.ETHUSD.String(),
		"btcUsd", bench.BTCUSD.String())
	return table, nil
}

// Table returns the published table.
func (s *Service) Table() (*Table, error) {
	t, _ := s.current.get()
	if t == nil {
		return nil, ErrRatesNotReady
	}
	return t, nil
}

// BuiltAt returns when the published table was built, or the zero time.
func (s *Service) BuiltAt() time.Time {
	_, at := s.current.get()
	return at
}

// Convert converts amount using the published table.
func (s *Service) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	t, err := s.Table()
	if err != nil {
		return decimal.Zero, err
	}
	return t.Convert(amount, from, to)
}
