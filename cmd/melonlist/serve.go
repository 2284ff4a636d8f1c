package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jgrizzled/melon-list/internal/api"
	"github.com/jgrizzled/melon-list/internal/config"
	"github.com/jgrizzled/melon-list/internal/listing"
	"github.com/jgrizzled/melon-list/internal/snapshot"
	"github.com/jgrizzled/melon-list/internal/worker"
)

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the fund listing over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.HTTPPort, Usage: "HTTP listen port"},
			currencyFlag(cfg),
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, cfg, c.String("port"), c.String("currency"))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, port, currency string) error {
	svc, err := newServices(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.rates.Refresh(ctx); err != nil {
		if cfg.RateRefreshInterval <= 0 {
			return fmt.Errorf("building exchange rates: %w", err)
		}
		slog.Error("initial rate build failed, waiting for refresh", "error", err)
	}
	if cfg.RateRefreshInterval > 0 {
		go worker.NewRateWorker(svc.rates, cfg.RateRefreshInterval).Run(ctx)
	}

	session, err := listing.NewSession(svc.funds, svc.rates, currency)
	if err != nil {
		return err
	}

	var snapshots *snapshot.Service
	if svc.pool != nil {
		archive, err := listing.NewSession(svc.funds, svc.rates, currency)
		if err != nil {
			return err
		}
		snapshots = snapshot.NewService(archive, snapshot.NewPgRepository(svc.pool))

		exports, err := exporter(ctx, cfg, "")
		if err != nil {
			return err
		}
		var hook worker.AfterSnapshotHook
		if exports.Enabled() {
			hook = exports
		}
		if cfg.SnapshotInterval > 0 {
			go worker.NewSnapshotWorker(snapshots, cfg.SnapshotInterval, hook).Run(ctx)
		} else {
			slog.Info("SNAPSHOT_INTERVAL is zero, snapshots only on request")
		}
	} else {
		slog.Warn("DATABASE_URL not set, snapshot archive disabled")
	}

	if cfg.AdminAPIKey == "" && snapshots != nil {
		slog.Warn("ADMIN_API_KEY not set, generate endpoint is unprotected")
	}

	srv := api.NewServer(port, session, svc.rates, snapshots, cfg.AdminAPIKey)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr, "currency", session.DisplaySymbol())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}
