package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jgrizzled/melon-list/internal/config"
	"github.com/jgrizzled/melon-list/internal/domain"
	"github.com/jgrizzled/melon-list/internal/external"
	"github.com/jgrizzled/melon-list/internal/price"
)

func ratesCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "rates",
		Usage: "print the exchange rate table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "quote", Usage: "only rates quoted in this symbol"},
		},
		Action: func(c *cli.Context) error {
			return rates(c.Context, cfg, c.String("quote"), os.Stdout)
		},
	}
}

func rates(ctx context.Context, cfg config.Config, quote string, out io.Writer) error {
	svc, err := newServices(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	table, err := svc.rates.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("building exchange rates: %w", err)
	}
	if err := printRates(out, table, quote); err != nil {
		return err
	}

	quotes, err := svc.quotes.Quotes(ctx)
	if err != nil {
		return err
	}
	return printBenchmarks(out, quotes)
}

func printRates(out io.Writer, table *price.Table, quote string) error {
	if quote != "" {
		quote = domain.NormalizeSymbol(quote)
	}
	fmt.Fprintf(out, "oracle quote asset: %s\n", table.QuoteSymbol())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Quote\tBase\tRate\t")
	for _, q := range table.Symbols() {
		if quote != "" && q != quote {
			continue
		}
		for _, base := range table.Symbols() {
			rate, err := table.Rate(q, base)
			if err != nil {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t\n", q, base, rate.String())
		}
	}
	return tw.Flush()
}

// printBenchmarks lists the recorded benchmark quotes. Nothing is printed without a database.
func printBenchmarks(out io.Writer, quotes []external.Quote) error {
	if len(quotes) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nrecorded benchmarks:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s USD\t%s\t\n", q.Symbol, q.PriceUSD.String(), q.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
