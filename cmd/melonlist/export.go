package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/jgrizzled/melon-list/internal/config"
	"github.com/jgrizzled/melon-list/internal/listing"
)

func exportCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the fund listing to XLSX and/or Google Sheets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "XLSX output path (default EXPORT_XLSX_PATH)"},
			currencyFlag(cfg),
		},
		Action: func(c *cli.Context) error {
			return runExport(c.Context, cfg, c.String("out"), c.String("currency"))
		},
	}
}

func runExport(ctx context.Context, cfg config.Config, out, currency string) error {
	exports, err := exporter(ctx, cfg, out)
	if err != nil {
		return err
	}
	if !exports.Enabled() {
		return errors.New("nothing to export to: pass --out or set EXPORT_XLSX_PATH or SHEETS_SPREADSHEET_ID")
	}

	svc, err := newServices(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.rates.Refresh(ctx); err != nil {
		return fmt.Errorf("building exchange rates: %w", err)
	}
	session, err := listing.NewSession(svc.funds, svc.rates, currency)
	if err != nil {
		return err
	}
	l, err := session.Listing(ctx, "")
	if err != nil {
		return err
	}

	if err := exports.Export(ctx, l); err != nil {
		return err
	}
	slog.Info("listing exported", "funds", len(l.Rows), "omitted", l.Omitted, "currency", l.Currency)
	return nil
}
