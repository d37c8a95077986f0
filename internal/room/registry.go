// Package room owns the per-room authoritative state and the store it is
// persisted through.
package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/prudhvinik1/tablesync/internal/config"
	"github.com/prudhvinik1/tablesync/internal/database"
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/repositories"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
)

var ErrRoomNotFound = errors.New("room not found")

// Registry lazily creates one Owner per room id and keeps it for the life of
// the process.
type Registry struct {
	mu         deadlock.RWMutex
	owners     map[string]*Owner
	store      repositories.RoomStore
	backend    string
	guardBytes int
}

type Options struct {
	// Backend names the store in use, for logs and /health.
	Backend    string
	GuardBytes int
}

func NewRegistry(store repositories.RoomStore, opts Options) *Registry {
	if opts.Backend == "" {
		opts.Backend = config.StoreMemory
	}
	return &Registry{
		owners:     make(map[string]*Owner),
		store:      store,
		backend:    opts.Backend,
		guardBytes: opts.GuardBytes,
	}
}

// Open selects the configured store. When the external store cannot be
// reached or hydrated, Open logs the fault and falls back to memory.
func Open(ctx context.Context, cfg *config.Config) *Registry {
	opts := Options{Backend: cfg.StoreBackend, GuardBytes: cfg.SnapshotGuardBytes}
	if cfg.StoreBackend == config.StoreMemory {
		return NewRegistry(repositories.NewMemoryRoomStore(), opts)
	}

	store, err := openPersistent(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("module", "room.registry").Str("backend", cfg.StoreBackend).Msg("external store unavailable, falling back to memory")
		opts.Backend = config.StoreMemory
		return NewRegistry(repositories.NewMemoryRoomStore(), opts)
	}
	return NewRegistry(store, opts)
}

func openPersistent(ctx context.Context, cfg *config.Config) (*repositories.PersistentRoomStore, error) {
	var backend repositories.HashBackend
	switch cfg.StoreBackend {
	case config.StoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		backend = repositories.NewRedisHashBackend(client, cfg.RedisRoomHash)
	case config.StorePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := repositories.NewPostgresHashBackend(pool, cfg.RedisRoomHash)
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		backend = pg
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	store := repositories.NewPersistentRoomStore(backend, repositories.PersistentOptions{
		Timeout:   cfg.PersistTimeout,
		QueueSize: cfg.PersistQueueSize,
	})
	if _, err := store.Hydrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Get returns the room's owner, creating an empty room on first access.
func (r *Registry) Get(roomID string) *Owner {
	r.mu.RLock()
	owner, ok := r.owners[roomID]
	r.mu.RUnlock()
	if ok {
		return owner
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.owners[roomID]; ok {
		return owner
	}

	state, ok := r.store.Get(roomID)
	if !ok {
		state = models.NewRoomState()
		r.store.Set(roomID, state)
		log.Info().Str("module", "room.registry").Str("room", roomID).Msg("room created")
	}
	owner = &Owner{roomID: roomID, state: state, store: r.store, guardBytes: r.guardBytes}
	r.owners[roomID] = owner
	return owner
}

// Lookup returns the owner only if the room exists in the registry or store.
func (r *Registry) Lookup(roomID string) (*Owner, bool) {
	r.mu.RLock()
	owner, ok := r.owners[roomID]
	r.mu.RUnlock()
	if ok {
		return owner, true
	}
	if _, stored := r.store.Get(roomID); !stored {
		return nil, false
	}
	return r.Get(roomID), true
}

// Delete drops the room from the registry and the store.
func (r *Registry) Delete(roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, cached := r.owners[roomID]
	_, stored := r.store.Get(roomID)
	if !cached && !stored {
		return ErrRoomNotFound
	}
	delete(r.owners, roomID)
	r.store.Delete(roomID)
	log.Info().Str("module", "room.registry").Str("room", roomID).Msg("room deleted")
	return nil
}

// ListRooms returns every known room id, including hydrated rooms not yet
// opened in this process.
func (r *Registry) ListRooms() []string {
	return r.store.ListRoomIDs()
}

func (r *Registry) Backend() string {
	return r.backend
}

// Close releases every owner and closes the store, draining queued writes.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.owners = make(map[string]*Owner)
	r.mu.Unlock()

	if err := r.store.Close(); err != nil {
		return fmt.Errorf("failed to close room store: %w", err)
	}
	return nil
}
