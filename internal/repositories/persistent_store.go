package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
)

const (
	DefaultPersistTimeout   = 5 * time.Second
	DefaultPersistQueueSize = 256
)

type PersistOp string

const (
	OpSet    PersistOp = "set"
	OpDelete PersistOp = "delete"
)

// PersistResult reports the outcome of one background write. It is only
// ever observed, never awaited by the mutation path.
type PersistResult struct {
	Op     PersistOp
	RoomID string
	Err    error
}

type PersistentOptions struct {
	Timeout   time.Duration
	QueueSize int
	// Results, when set, receives every outcome without blocking the worker.
	Results chan<- PersistResult
}

type persistTask struct {
	op     PersistOp
	roomID string
	data   []byte
}

// PersistentRoomStore mirrors an external HashBackend in process. Set and
// Delete update the cache synchronously and queue the external write; a
// failed write is logged and the cache stays authoritative for this process.
type PersistentRoomStore struct {
	mu      deadlock.RWMutex
	rooms   map[string]*models.RoomState
	closed  bool
	backend HashBackend
	tasks   chan persistTask
	results chan<- PersistResult
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewPersistentRoomStore(backend HashBackend, opts PersistentOptions) *PersistentRoomStore {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPersistTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultPersistQueueSize
	}
	s := &PersistentRoomStore{
		rooms:   make(map[string]*models.RoomState),
		backend: backend,
		tasks:   make(chan persistTask, opts.QueueSize),
		results: opts.Results,
		timeout: opts.Timeout,
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Hydrate loads every stored room into the cache. A record that fails to
// decode is logged and skipped; only a failure to read the hash is returned.
func (s *PersistentRoomStore) Hydrate(ctx context.Context) (int, error) {
	entries, err := s.backend.HGetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read stored rooms: %w", err)
	}

	loaded := 0
	s.mu.Lock()
	defer s.mu.Unlock()
	for roomID, data := range entries {
		state, err := models.Unmarshal(data)
		if err != nil {
			log.Warn().Err(err).Str("module", "repositories.persistent").Str("room", roomID).Msg("skipping corrupt room record")
			continue
		}
		s.rooms[roomID] = state
		loaded++
	}
	log.Info().Str("module", "repositories.persistent").Int("loaded", loaded).Int("stored", len(entries)).Msg("hydrated rooms")
	return loaded, nil
}

func (s *PersistentRoomStore) Get(roomID string) (*models.RoomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.rooms[roomID]
	return state, ok
}

func (s *PersistentRoomStore) Set(roomID string, state *models.RoomState) {
	// Serialize now so the queued write captures this version of the state.
	data, err := models.Marshal(state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[roomID] = state
	if err != nil {
		s.report(PersistResult{Op: OpSet, RoomID: roomID, Err: err})
		return
	}
	s.enqueue(persistTask{op: OpSet, roomID: roomID, data: data})
}

func (s *PersistentRoomStore) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	s.enqueue(persistTask{op: OpDelete, roomID: roomID})
}

func (s *PersistentRoomStore) ListRoomIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.rooms)
}

// Close drains queued writes and closes the backend.
func (s *PersistentRoomStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.tasks)
	s.mu.Unlock()

	s.wg.Wait()
	return s.backend.Close()
}

// enqueue must be called with s.mu held.
func (s *PersistentRoomStore) enqueue(t persistTask) {
	if s.closed {
		s.report(PersistResult{Op: t.op, RoomID: t.roomID, Err: ErrStoreClosed})
		return
	}
	select {
	case s.tasks <- t:
	default:
		s.report(PersistResult{Op: t.op, RoomID: t.roomID, Err: ErrQueueFull})
	}
}

func (s *PersistentRoomStore) run() {
	defer s.wg.Done()
	for t := range s.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		var err error
		switch t.op {
		case OpSet:
			err = s.backend.HSet(ctx, t.roomID, t.data)
		case OpDelete:
			err = s.backend.HDel(ctx, t.roomID)
		}
		cancel()
		s.report(PersistResult{Op: t.op, RoomID: t.roomID, Err: err})
	}
}

func (s *PersistentRoomStore) report(r PersistResult) {
	if r.Err != nil {
		log.Error().Err(r.Err).Str("module", "repositories.persistent").Str("op", string(r.Op)).Str("room", r.RoomID).Msg("room persistence failed")
	} else {
		log.Debug().Str("module", "repositories.persistent").Str("op", string(r.Op)).Str("room", r.RoomID).Msg("room persisted")
	}
	if s.results == nil {
		return
	}
	select {
	case s.results <- r:
	default:
	}
}
