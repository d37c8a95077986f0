package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisHashBackend stores every room as one field of a single Redis hash.
type RedisHashBackend struct {
	client *redis.Client
	key    string
}

func NewRedisHashBackend(client *redis.Client, key string) *RedisHashBackend {
	return &RedisHashBackend{client: client, key: key}
}

func (r *RedisHashBackend) HSet(ctx context.Context, roomID string, value []byte) error {
	if err := r.client.HSet(ctx, r.key, roomID, value).Err(); err != nil {
		return fmt.Errorf("failed to store room: %w", err)
	}
	return nil
}

func (r *RedisHashBackend) HDel(ctx context.Context, roomID string) error {
	if err := r.client.HDel(ctx, r.key, roomID).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (r *RedisHashBackend) HGetAll(ctx context.Context) (map[string][]byte, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	out := make(map[string][]byte, len(fields))
	for roomID, data := range fields {
		out[roomID] = []byte(data)
	}
	return out, nil
}

func (r *RedisHashBackend) Close() error {
	return r.client.Close()
}
