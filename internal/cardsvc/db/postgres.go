package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/card-registry/internal/cardsvc/db/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectPostgres initializes the connection pool and applies the embedded migrations.
func ConnectPostgres(ctx context.Context, dsn string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = int32(maxConns)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := applyMigrations(ctx, migrations.Postgres, "postgres", pgMigrator{pool}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return pool, nil
}

type pgMigrator struct {
	pool *pgxpool.Pool
}

func (m pgMigrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationTable+` (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

func (m pgMigrator) isApplied(ctx context.Context, name string) (bool, error) {
	var found int
	err := m.pool.QueryRow(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = $1", name).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m pgMigrator) apply(ctx context.Context, name, upSQL string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO "+migrationTable+" (name) VALUES ($1) ON CONFLICT (name) DO NOTHING",
		name,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
