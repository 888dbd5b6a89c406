package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"NewsDigest/internal/app"
	"NewsDigest/internal/config"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/reporting"
)

func main() {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if enabled, err := reporting.Init(cfg.Sentry.DSN, cfg.Sentry.Environment); err != nil {
		logger.Warn("error reporting disabled", "error", err)
	} else if enabled {
		defer reporting.Flush()
	}

	application, err := app.New(cfg, logger, app.Options{})
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		reporting.Capture("main", err)
		reporting.Flush()
		os.Exit(1)
	}
}
