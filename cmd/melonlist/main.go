package main

import (
	"context"
	"embed"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jgrizzled/melon-list/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "melonlist",
		Usage: "rank Melon funds by gross asset value and convert between ETH, BTC and USD",
		Commands: []*cli.Command{
			serveCommand(cfg),
			listCommand(cfg),
			ratesCommand(cfg),
			exportCommand(cfg),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatalf("melonlist: %v", err)
	}
}

func currencyFlag(cfg config.Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "currency",
		Aliases: []string{"c"},
		Value:   cfg.DisplaySymbol,
		Usage:   "display currency: ETH, BTC or USD",
	}
}
