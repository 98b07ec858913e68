package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/swiftretail/pos-terminal/internal/cart"
	"github.com/swiftretail/pos-terminal/internal/catalog"
	"github.com/swiftretail/pos-terminal/internal/checkout"
	"github.com/swiftretail/pos-terminal/internal/cli"
	"github.com/swiftretail/pos-terminal/internal/config"
	"github.com/swiftretail/pos-terminal/internal/metrics"
	"github.com/swiftretail/pos-terminal/internal/notify"
	"github.com/swiftretail/pos-terminal/internal/session"
	"github.com/swiftretail/pos-terminal/pkg/backend"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Optional Prometheus endpoint for long-running registers
	if cfg.Metrics.Addr != "" {
		go func() {
			slog.Info("metrics listener starting", slog.String("address", cfg.Metrics.Addr))

			if err := http.ListenAndServe(cfg.Metrics.Addr, metrics.Handler()); err != nil {
				slog.Error("metrics listener stopped", slog.String("error", err.Error()))
			}
		}()
	}

	client := backend.New(cfg.Backend)
	sess := session.New()
	notifier := notify.NewConsole(os.Stdout)

	cartStore := cart.NewStore(cfg.Checkout.DefaultIncludeTax)
	catalogSvc := catalog.NewService(client)
	checkoutSvc := checkout.NewService(client, cartStore, catalogSvc, sess, notifier, cfg.Checkout.SubmitTimeout)

	terminal := cli.New(cfg, client, sess, cartStore, catalogSvc, checkoutSvc, notifier, os.Stdin, os.Stdout)

	slog.Info("terminal initialized",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend.BaseURL))

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"shell"}
	}

	if err := terminal.Execute(args...); err != nil {
		os.Exit(1)
	}
}
