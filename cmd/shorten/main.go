package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avdcouto/photoapp/internal/app"
	"github.com/avdcouto/photoapp/internal/config"
	"github.com/avdcouto/photoapp/internal/logger"
	"github.com/avdcouto/photoapp/internal/shorten"
	"github.com/avdcouto/photoapp/internal/shorten/memory"
	"github.com/avdcouto/photoapp/internal/shorten/postgres"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.ParseServerFlags()
	if err != nil {
		return err
	}

	zapLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store shorten.Store
	if cfg.DatabaseDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.DatabaseDSN, zapLogger.Named("store"))
		if err != nil {
			return err
		}
	} else {
		zapLogger.Warn("no database DSN configured, using in-memory store")
		store = memory.NewStore()
	}

	shortenApp := app.NewApp(cfg, store, zapLogger)
	r, err := shortenApp.SetupRouter()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	zapLogger.Infow("shorten service started", "addr", cfg.RunAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
