package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jgrizzled/melon-list/internal/listing"
)

// XLSXWriter writes the listing to a local workbook, replacing it on every write.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter saving to path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write renders l into a single FUNDS sheet and saves the workbook.
func (w *XLSXWriter) Write(_ context.Context, l listing.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", fundsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, row := range buildFundRows(l) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(fundsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(fundColumns), 1)
	if err != nil {
		return fmt.Errorf("resolving header range: %w", err)
	}
	if err := f.SetCellStyle(fundsSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetPanes(fundsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving %s: %w", w.path, err)
	}
	return nil
}
