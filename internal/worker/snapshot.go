package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jgrizzled/melon-list/internal/listing"
)

// SnapshotGenerator renders and archives the fund listing.
type SnapshotGenerator interface {
	Generate(ctx context.Context, date time.Time) (listing.Listing, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, l listing.Listing) error
}

// SnapshotWorker periodically archives the fund listing.
type SnapshotWorker struct {
	generator SnapshotGenerator
	interval  time.Duration
	hook      AfterSnapshotHook // optional
}

// NewSnapshotWorker creates a new SnapshotWorker with an optional post-generation hook.
func NewSnapshotWorker(generator SnapshotGenerator, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		generator: generator,
		interval:  interval,
		hook:      hook,
	}
}

func (w *SnapshotWorker) generate(ctx context.Context) {
	l, err := w.generator.Generate(ctx, time.Now())
	if err != nil {
		slog.Error("SnapshotWorker: generation failed", "error", err)
		return
	}
	slog.Info("SnapshotWorker: generation completed", "funds", len(l.Rows), "omitted", l.Omitted)

	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, l); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed")
	}
}

// Run generates a snapshot immediately and then on every tick.
// It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting", "interval", w.interval)

	w.generate(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			w.generate(ctx)
		}
	}
}
