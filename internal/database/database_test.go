package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRedisClient tests connecting to a reachable server
func TestNewRedisClient(t *testing.T) {
	// ARRANGE
	mr := miniredis.RunT(t)

	// ACT
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")

	// ASSERT
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, RedisPoolSize, client.Options().PoolSize)
	assert.Equal(t, ConnectTimeout, client.Options().DialTimeout)
}

func TestNewRedisClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"invalid url", "not a url"},
		{"unreachable", "redis://127.0.0.1:1/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewRedisClient(context.Background(), tt.url)

			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestNewPostgresPool_InvalidURL(t *testing.T) {
	pool, err := NewPostgresPool(context.Background(), "postgres://%zz")

	assert.Error(t, err)
	assert.Nil(t, pool)
}
