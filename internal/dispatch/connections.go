package dispatch

import "sort"

// Outbox resolves who receives a frame. It is only touched from the dispatch
// loop.
type Outbox interface {
	// Join registers peer for userID and returns the peer it replaced, if any.
	Join(roomID, userID string, peer Peer) Peer
	// Leave removes userID only while peer is still their registered peer.
	Leave(roomID, userID string, peer Peer) bool
	Lookup(roomID, userID string) (Peer, bool)
	Members(roomID string) []string
	// Evict removes every peer of the room and returns them.
	Evict(roomID string) []Peer
}

// Connections is the in-process Outbox: one live peer per user per room.
type Connections struct {
	rooms map[string]map[string]Peer
}

func NewConnections() *Connections {
	return &Connections{rooms: make(map[string]map[string]Peer)}
}

func (c *Connections) Join(roomID, userID string, peer Peer) Peer {
	members, ok := c.rooms[roomID]
	if !ok {
		members = make(map[string]Peer)
		c.rooms[roomID] = members
	}
	prev := members[userID]
	members[userID] = peer
	if prev == peer {
		return nil
	}
	return prev
}

func (c *Connections) Leave(roomID, userID string, peer Peer) bool {
	members, ok := c.rooms[roomID]
	if !ok || members[userID] != peer {
		return false
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(c.rooms, roomID)
	}
	return true
}

func (c *Connections) Lookup(roomID, userID string) (Peer, bool) {
	peer, ok := c.rooms[roomID][userID]
	return peer, ok
}

// Members returns the connected user ids in sorted order.
func (c *Connections) Members(roomID string) []string {
	return sortedIDs(c.rooms[roomID])
}

func (c *Connections) Evict(roomID string) []Peer {
	members := c.rooms[roomID]
	delete(c.rooms, roomID)
	peers := make([]Peer, 0, len(members))
	for _, id := range sortedIDs(members) {
		peers = append(peers, members[id])
	}
	return peers
}

func sortedIDs(members map[string]Peer) []string {
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
