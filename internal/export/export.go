package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jgrizzled/melon-list/internal/listing"
)

// SheetWriter writes a rendered listing to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, l listing.Listing) error
}

// Service fans a listing out to every configured writer.
type Service struct {
	writers []SheetWriter
}

// NewService creates a new export Service. Nil writers are ignored.
func NewService(writers ...SheetWriter) *Service {
	s := &Service{}
	for _, w := range writers {
		if w != nil {
			s.writers = append(s.writers, w)
		}
	}
	return s
}

// Enabled reports whether any writer is configured.
func (s *Service) Enabled() bool {
	return len(s.writers) > 0
}

// Export writes l with every writer. A failing writer does not stop the others.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, l listing.Listing) error {
	var errs []error
	for _, w := range s.writers {
		if err := w.Write(ctx, l); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", w, err))
			continue
		}
		slog.Debug("export: listing written", "writer", fmt.Sprintf("%T", w), "funds", len(l.Rows))
	}
	return errors.Join(errs...)
}
