// Package database opens connections to the external room stores.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	ConnectTimeout    = 5 * time.Second
	RedisPoolSize     = 10
	RedisReadTimeout  = 3 * time.Second
	RedisWriteTimeout = 3 * time.Second
)

// NewRedisClient connects to redisURL and verifies the server answers within
// ConnectTimeout.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}
	opts.DialTimeout = ConnectTimeout
	opts.ReadTimeout = RedisReadTimeout
	opts.WriteTimeout = RedisWriteTimeout
	if opts.PoolSize == 0 {
		opts.PoolSize = RedisPoolSize
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error pinging redis at %s: %w", opts.Addr, err)
	}

	log.Info().Str("module", "database.redis").Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis client created")
	return client, nil
}
