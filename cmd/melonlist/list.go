package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/jgrizzled/melon-list/internal/config"
	"github.com/jgrizzled/melon-list/internal/listing"
)

func listCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print funds ranked by GAV",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "only funds whose name contains this text"},
			&cli.StringSliceFlag{Name: "expand", Aliases: []string{"e"}, Usage: "fund address to print details for (repeatable)"},
			currencyFlag(cfg),
		},
		Action: func(c *cli.Context) error {
			return list(c.Context, cfg, c.String("query"), c.String("currency"), c.StringSlice("expand"), os.Stdout)
		},
	}
}

func list(ctx context.Context, cfg config.Config, query, currency string, expand []string, out io.Writer) error {
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
	l, err := session.Listing(ctx, query)
	if err != nil {
		return err
	}
	if err := printListing(out, l); err != nil {
		return err
	}

	for _, address := range expand {
		view, err := session.Detail(ctx, address)
		if err != nil {
			return err
		}
		if err := printDetail(out, view, l.Currency); err != nil {
			return err
		}
	}
	return nil
}

func printListing(out io.Writer, l listing.Listing) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tName\tGAV (%s)\tShare Price (%s)\tDenomination\tCreated\t\n", l.Currency, l.Currency)
	for _, r := range l.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n", r.Rank, r.Name, r.GAVDisplay, r.SharePriceDisplay, r.Denomination, r.Created)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if l.Omitted > 0 {
		fmt.Fprintf(out, "%d of %d funds omitted: no %s rate for their denomination asset\n", l.Omitted, l.Total, l.Currency)
	}
	return nil
}

func printDetail(out io.Writer, v listing.DetailView, currency string) error {
	fmt.Fprintf(out, "\n%s (%s)\n", v.Row.Name, v.Row.Address)
	fmt.Fprintf(out, "  NAV: %s %s\n", v.NAVDisplay, currency)
	fmt.Fprintf(out, "  Fees: management %s, performance %s\n", v.ManagementFeeDisplay, v.PerformanceFeeDisplay)
	fmt.Fprintf(out, "  Investors: %d (%d holding shares)\n", v.Investors, v.CurrentInvestors)

	exchanges := make([]string, 0, len(v.Exchanges))
	for _, e := range v.Exchanges {
		exchanges = append(exchanges, e.Exchange)
	}
	if len(exchanges) > 0 {
		fmt.Fprintf(out, "  Exchanges: %s\n", strings.Join(exchanges, ", "))
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  Holding\tBalance")
	for _, h := range v.Holdings {
		fmt.Fprintf(tw, "  %s\t%s\n", h.Symbol, h.Display)
	}
	return tw.Flush()
}
