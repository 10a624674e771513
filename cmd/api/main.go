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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"bookregistry/internal/config"
	"bookregistry/internal/logger"
	"bookregistry/internal/platform/notion"
	"bookregistry/internal/registration"
	"bookregistry/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo  registration.Repository
		ready func(context.Context) error
	)
	if cfg.AuditEnabled() {
		pool, err := openDB(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", cfg.RedactedDSN()).Msg("cannot open database")
		}
		defer pool.Close()
		repo = registration.NewPostgresRepo(pool)
		ready = pool.Ping
		log.Info().Str("dsn", cfg.RedactedDSN()).Msg("registration audit enabled")
	} else {
		log.Warn().Msg("DB_DSN not set; registration audit is disabled")
	}

	registrar := registry.NewService(registry.NotionStores(notion.Config{
		BaseURL:   cfg.NotionBaseURL,
		Version:   cfg.NotionVersion,
		UserAgent: cfg.UserAgent,
	}), log)
	svc := registration.NewService(registrar, repo, log)

	httpServer := &http.Server{
		Addr: cfg.AppAddr,
		Handler: newRouter(ctx, routerDeps{
			cfg:           cfg,
			logger:        log,
			registrations: registration.NewHTTPHandler(svc),
			ready:         ready,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.AppAddr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server error")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func openDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.ConnConfig.Tracer = logger.NewPGXTracer(log)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	log.Info().Msg("database connection OK")
	return pool, nil
}
