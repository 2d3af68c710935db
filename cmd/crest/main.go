package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/app"
	"github.com/crestbank/crest-console/internal/cli"
	"github.com/crestbank/crest-console/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	// UI owns stdout; diagnostics go to stderr.
	logger := app.NewLogger(os.Stderr, cfg.LogFormat)

	sess := session.New()
	client := api.NewClient(cfg.APIBaseURL, sess, &http.Client{Timeout: cfg.HTTPTimeout})

	ui := cli.New(os.Stdin, os.Stdout, logger, cfg, sess,
		api.NewAuthClient(client, sess),
		api.NewCustomerClient(client),
		api.NewTellerClient(client),
		api.NewAdminClient(client))

	if err := ui.Run(ctx); err != nil {
		logger.Error("console", slog.Any("error", err))
		os.Exit(1)
	}
}
