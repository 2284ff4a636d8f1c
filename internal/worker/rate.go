package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jgrizzled/melon-list/internal/price"
)

// RateRefresher rebuilds and publishes the exchange rate table.
type RateRefresher interface {
	Refresh(ctx context.Context) (*price.Table, error)
}

// RateWorker periodically rebuilds the exchange rate table.
// A failed refresh keeps the previously published table.
type RateWorker struct {
	refresher RateRefresher
	interval  time.Duration
}

// NewRateWorker creates a new RateWorker.
func NewRateWorker(refresher RateRefresher, interval time.Duration) *RateWorker {
	return &RateWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RateWorker) Run(ctx context.Context) {
	slog.Info("RateWorker: starting", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RateWorker: shutting down")
			return
		case <-ticker.C:
			if _, err := w.refresher.Refresh(ctx); err != nil {
				slog.Error("RateWorker: refresh failed, keeping previous table", "error", err)
			}
		}
	}
}
