package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"bookregistry/db"
	"bookregistry/internal/config"
	"bookregistry/internal/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if *command == "create" {
		if err := create(*name); err != nil {
			log.Fatal().Err(err).Msg("failed to create migration")
		}
		log.Info().Str("name", *name).Str("dir", migrationsDir()).Msg("migration created")
		return
	}

	if cfg.DatabaseDSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}

	ctx := context.Background()
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid DB_DSN")
	}
	poolCfg.ConnConfig.Tracer = logger.NewPGXTracer(log)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", cfg.RedactedDSN()).Msg("failed to connect to database")
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	if err := run(ctx, sqlDB, *command, log); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
}

func setupGoose() error {
	goose.SetBaseFS(db.Migrations)
	return goose.SetDialect("postgres")
}

func run(ctx context.Context, sqlDB *sql.DB, command string, log zerolog.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info().Msg("migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		log.Info().Msg("migration rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, sqlDB, db.MigrationsDir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
	return nil
}

func create(name string) error {
	if name == "" {
		return fmt.Errorf("name is required for 'create' command")
	}
	goose.SetBaseFS(nil)
	return goose.Create(nil, migrationsDir(), name, "sql")
}
