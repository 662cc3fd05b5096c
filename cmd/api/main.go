package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	"storefront/internal/session"
	"storefront/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	base, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = base.Sync() }()
	logger := base.Named("api")

	ctx := context.Background()

	var dbpool *pgxpool.Pool
	if cfg.NeedsDB() {
		dbpool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer dbpool.Close()
	}

	backend, closeBackend, err := openBackend(ctx, cfg, dbpool)
	if err != nil {
		logger.Fatal("open cart storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer closeBackend()

	sessions, err := session.NewRegistry(backend, cfg.SessionCacheSize, logger.Named("session"))
	if err != nil {
		logger.Fatal("init session registry", zap.Error(err))
	}

	ready := map[string]storage.Pinger{}
	if p, ok := backend.(storage.Pinger); ok {
		ready["storage"] = p
	}
	if dbpool != nil {
		ready["db"] = dbpool
	}

	deps := httpserver.Deps{
		Sessions:    sessions,
		Currency:    cfg.Currency,
		CORSOrigins: cfg.CORSOrigins,
		ReadyChecks: ready,
	}
	if cfg.CatalogEnabled {
		deps.Catalog = catalog.NewService(catalog.NewPostgres(dbpool, logger.Named("catalog")), cfg.Currency)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), deps)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("storage", cfg.StorageBackend),
			zap.Bool("catalog", cfg.CatalogEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
