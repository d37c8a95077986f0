// Package dispatch routes decoded protocol messages to per-domain handlers
// and turns their results into commits, broadcasts and acks.
package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/room"
)

// Peer is the outbound half of one live connection. Implementations must
// encode frames before returning: the state they reference keeps changing.
type Peer interface {
	Send(frame any)
	// SendSnapshot delivers snap, omitting assets the peer already holds.
	// resync forgets what the peer holds first.
	SendSnapshot(snap *room.Snapshot, resync bool)
	Close()
}

// Session is the router's view of one connection. UserID and RoomID are set
// once authentication succeeds.
type Session struct {
	ID     string
	UserID string
	RoomID string
	Peer   Peer
}

func NewSession(id string, peer Peer) *Session {
	return &Session{ID: id, Peer: peer}
}

func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// AssetTracker remembers which snapshot assets a connection has received.
type AssetTracker struct {
	known map[string]struct{}
}

func NewAssetTracker() *AssetTracker {
	return &AssetTracker{known: make(map[string]struct{})}
}

// Frame builds the snapshot frame for this connection and records the
// assets it carries as delivered.
func (t *AssetTracker) Frame(snap *room.Snapshot, resync bool) protocol.SnapshotFrame {
	if resync {
		t.known = make(map[string]struct{})
	}
	assets := snap.Assets[:0:0]
	for _, a := range snap.Assets {
		if _, ok := t.known[a.ID]; ok {
			continue
		}
		t.known[a.ID] = struct{}{}
		assets = append(assets, a)
	}
	return protocol.SnapshotFrame{
		Type:         protocol.TypeSnapshot,
		StateVersion: snap.StateVersion,
		State:        snap.State,
		AssetRefs:    snap.AssetRefs,
		Assets:       assets,
	}
}
