package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgrizzled/melon-list/internal/chain"
	"github.com/jgrizzled/melon-list/internal/config"
	"github.com/jgrizzled/melon-list/internal/database"
	"github.com/jgrizzled/melon-list/internal/export"
	"github.com/jgrizzled/melon-list/internal/external"
	"github.com/jgrizzled/melon-list/internal/fund"
	"github.com/jgrizzled/melon-list/internal/melon"
	"github.com/jgrizzled/melon-list/internal/price"
)

// services wires the shared components every command needs.
type services struct {
	eth    *chain.Client
	pool   *pgxpool.Pool // nil without DATABASE_URL
	quotes *external.Service
	rates  *price.Service
	funds  *fund.Service
}

func newServices(ctx context.Context, cfg config.Config, withDatabase bool) (*services, error) {
	s := &services{}

	if withDatabase && cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		migrations, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("opening migrations: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrations); err != nil {
			pool.Close()
			return nil, err
		}
		s.pool = pool
	}

	eth, err := chain.NewClient(ctx, cfg.EthRPCURL)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.eth = eth
	if id, err := eth.ChainID(ctx); err != nil {
		slog.Warn("could not read chain ID", "rpc", cfg.EthRPCURL, "error", err)
	} else {
		slog.Info("connected to Ethereum node", "chainId", id.String())
	}

	contracts, err := melon.NewClient(eth, melon.Addresses{
		Version:     cfg.VersionAddress,
		Ranking:     cfg.RankingAddress,
		PriceSource: cfg.PriceSourceAddress,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	source, err := external.NewSource(cfg.MarketDataProvider, cfg.MessariURL, cfg.CoinGeckoURL, external.HTTPOptions{
		RequestsPerSecond: cfg.MarketDataRateLimit,
		MaxRetries:        cfg.MarketDataRetryMax,
		RetryBaseDelay:    cfg.MarketDataRetryBaseDelay,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	var quoteRepo external.QuoteRepository
	if s.pool != nil {
		quoteRepo = external.NewPgQuoteRepository(s.pool)
	}

	s.quotes = external.NewService(source, quoteRepo)
	s.rates = price.NewService(s.quotes, contracts)
	s.funds = fund.NewService(contracts)
	return s, nil
}

func (s *services) Close() {
	if s.eth != nil {
		s.eth.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// exporter builds the configured spreadsheet writers. xlsxPath overrides EXPORT_XLSX_PATH when set.
func exporter(ctx context.Context, cfg config.Config, xlsxPath string) (*export.Service, error) {
	if xlsxPath == "" {
		xlsxPath = cfg.ExportXLSXPath
	}

	var writers []export.SheetWriter
	if xlsxPath != "" {
		writers = append(writers, export.NewXLSXWriter(xlsxPath))
	}
	if cfg.SheetsSpreadsheetID != "" && cfg.GoogleCredentialsJSON != "" {
		sheets, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return nil, err
		}
		writers = append(writers, sheets)
	}
	return export.NewService(writers...), nil
}
