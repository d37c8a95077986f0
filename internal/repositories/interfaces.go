package repositories

import (
	"context"
	"errors"

	"github.com/prudhvinik1/tablesync/internal/models"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrQueueFull   = errors.New("persistence queue full")
	ErrStoreClosed = errors.New("store closed")
)

// RoomStore holds one RoomState per room id. Get returns the live instance:
// mutations through it are visible to every holder.
type RoomStore interface {
	Get(roomID string) (*models.RoomState, bool)
	Set(roomID string, state *models.RoomState)
	Delete(roomID string)
	ListRoomIDs() []string
	Close() error
}

// HashBackend is an external key-value hash with one field per room id.
type HashBackend interface {
	HSet(ctx context.Context, roomID string, value []byte) error
	HDel(ctx context.Context, roomID string) error
	HGetAll(ctx context.Context) (map[string][]byte, error)
	Close() error
}
