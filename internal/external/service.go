package external

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// BenchmarkSource fetches the external ETH and BTC USD prices.
type BenchmarkSource interface {
	FetchBenchmarkPrices(ctx context.Context) (domain.BenchmarkPrices, error)
}

// Service fetches benchmark prices and records each successful fetch when a repository is configured.
type Service struct {
	source BenchmarkSource
	repo   QuoteRepository
}

// NewService creates a new Service. repo may be nil.
func NewService(source BenchmarkSource, repo QuoteRepository) *Service {
	if source == nil {
		panic("external.NewService: source must not be nil")
	}
	return &Service{
		source: source,
		repo:   repo,
	}
}

// NewSource returns the benchmark source named by provider ("messari" or "coingecko").
func NewSource(provider, messariURL, coinGeckoURL string, opts HTTPOptions) (BenchmarkSource, error) {
	switch provider {
	case "messari", "":
		return NewMessariClient(messariURL, opts), nil
	case "coingecko":
		return NewCoinGeckoClient(coinGeckoURL, opts), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", provider)
	}
}

// FetchBenchmarkPrices fetches from the source. Recording failures are logged, never returned.
func (s *Service) FetchBenchmarkPrices(ctx context.Context) (domain.BenchmarkPrices, error) {
	prices, err := s.source.FetchBenchmarkPrices(ctx)
	if err != nil {
		return domain.BenchmarkPrices{}, fmt.Errorf("fetching benchmark prices: %w", err)
	}

	if s.repo != nil {
		s.record(ctx, domain.SymbolETH, prices.ETHUSD)
		s.record(ctx, domain.SymbolBTC, prices.BTCUSD)
	}
	return prices, nil
}

func (s *Service) record(ctx context.Context, symbol string, priceUSD decimal.Decimal) {
	if err := s.repo.SaveQuote(ctx, symbol, priceUSD); err != nil {
		slog.Warn("failed to record benchmark quote", "symbol", symbol, "error", err)
	}
}

// Quotes returns the recorded benchmark quotes, or none when no repository is configured.
func (s *Service) Quotes(ctx context.Context) ([]Quote, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetAllQuotes(ctx)
}
