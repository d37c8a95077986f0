package room

import (
	"encoding/json"
	"fmt"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/repositories"
	"github.com/prudhvinik1/tablesync/internal/snapshot"
	"github.com/rs/zerolog/log"
)

// Owner is the single authority over one room's state. It must only be used
// from the dispatch loop.
type Owner struct {
	roomID     string
	state      *models.RoomState
	store      repositories.RoomStore
	guardBytes int
}

// Snapshot is a pruned view of the state plus the assets lifted out of it.
// State shares memory with the live room and must be encoded before the
// next mutation.
type Snapshot struct {
	StateVersion uint64
	State        *models.RoomState
	Assets       []snapshot.Asset
	AssetRefs    map[string]string
}

func (o *Owner) RoomID() string {
	return o.roomID
}

func (o *Owner) State() *models.RoomState {
	return o.state
}

func (o *Owner) Version() uint64 {
	return o.state.StateVersion
}

// Commit bumps the state version and hands the state to the store. It never
// blocks on external persistence.
func (o *Owner) Commit() uint64 {
	o.state.StateVersion++
	o.store.Set(o.roomID, o.state)
	return o.state.StateVersion
}

// Snapshot builds the outbound view. A snapshot above the compressed size
// guard is still returned; the overrun is logged.
func (o *Owner) Snapshot() (*Snapshot, error) {
	res, err := snapshot.Build(o.state)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot assets: %w", err)
	}
	snap := &Snapshot{
		StateVersion: o.state.StateVersion,
		State:        snapshot.Prune(o.state),
		Assets:       res.Assets,
		AssetRefs:    res.AssetRefs,
	}
	o.checkGuard(snap)
	return snap, nil
}

func (o *Owner) checkGuard(snap *Snapshot) {
	if o.guardBytes <= 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Str("module", "room.owner").Str("room", o.roomID).Msg("failed to measure snapshot")
		return
	}
	size, err := snapshot.CheckGuard(data, o.guardBytes)
	if err != nil {
		log.Warn().Err(err).Str("module", "room.owner").Str("room", o.roomID).Int("compressed", size).Msg("snapshot over size guard")
	}
}
