package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const (
	MaxConns          = 10
	MinConns          = 1
	MaxConnLifetime   = 10 * time.Minute
	MaxConnIdleTime   = 5 * time.Minute
	HealthCheckPeriod = time.Minute
)

// NewPostgresPool opens a small pool; room writes come from a single worker
// so a handful of connections is plenty.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing postgres config: %w", err)
	}
	cfg.MaxConns = MaxConns
	cfg.MinConns = MinConns
	cfg.MaxConnLifetime = MaxConnLifetime
	cfg.MaxConnIdleTime = MaxConnIdleTime
	cfg.HealthCheckPeriod = HealthCheckPeriod
	cfg.ConnConfig.ConnectTimeout = ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging postgres at %s: %w", cfg.ConnConfig.Host, err)
	}

	log.Info().Str("module", "database.postgres").Str("host", cfg.ConnConfig.Host).Str("database", cfg.ConnConfig.Database).Msg("postgres pool created")
	return pool, nil
}
