package repositories

import (
	"sort"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/sasha-s/go-deadlock"
)

// MemoryRoomStore keeps rooms in process only.
type MemoryRoomStore struct {
	mu    deadlock.RWMutex
	rooms map[string]*models.RoomState
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{rooms: make(map[string]*models.RoomState)}
}

func (s *MemoryRoomStore) Get(roomID string) (*models.RoomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.rooms[roomID]
	return state, ok
}

func (s *MemoryRoomStore) Set(roomID string, state *models.RoomState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[roomID] = state
}

func (s *MemoryRoomStore) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

func (s *MemoryRoomStore) ListRoomIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.rooms)
}

func (s *MemoryRoomStore) Close() error {
	return nil
}

func sortedKeys(rooms map[string]*models.RoomState) []string {
	ids := make([]string, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
