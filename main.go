// Package main is the entry point for the TA/DA and Tour expense report web application.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gitlab.com/yelinaung/expense-report/internal/config"
	"gitlab.com/yelinaung/expense-report/internal/logger"
	"gitlab.com/yelinaung/expense-report/internal/service"
	"gitlab.com/yelinaung/expense-report/internal/storage"
	"gitlab.com/yelinaung/expense-report/internal/telemetry"
	"gitlab.com/yelinaung/expense-report/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("expense-report %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetFormat(cfg.LogFormat)
	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := shutdownTelemetry(sctx); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	backend, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	logger.Log.Info().Str("backend", backend.Kind).Msg("Database initialized successfully")

	srv, err := web.NewServer(
		web.Options{
			Addr:         cfg.Addr(),
			ServiceName:  cfg.ServiceName,
			HashKey:      []byte(cfg.SessionHashKey),
			BlockKey:     []byte(cfg.SessionBlockKey),
			SecureCookie: cfg.SecureCookie,
		},
		service.NewAuthService(backend.Users),
		service.NewAdminService(backend.Users),
		service.NewEntryService(backend.Entries),
	)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create web server")
	}

	if cfg.SessionHashKey == "" || cfg.SessionBlockKey == "" {
		logger.Log.Warn().Msg("SESSION_HASH_KEY or SESSION_BLOCK_KEY not set, sessions will not survive a restart")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.Info().Str("addr", cfg.Addr()).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info().Msg("Shutting down...")

		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error().Err(err).Msg("Server stopped with error")
	}
}
