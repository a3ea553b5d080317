// Package store keeps reconciliation history in PostgreSQL: one row per
// run plus the final table of each successful run, so an operator can see
// what a past batch produced without the output files.
package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/resolutions/internal/config"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a pgx-backed run history. It implements reconcile.Recorder.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects using cfg, verifies the connection and creates the schema
// if needed.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

var _ reconcile.Recorder = (*Store)(nil)
