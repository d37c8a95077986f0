package dispatch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/repositories"
	"github.com/prudhvinik1/tablesync/internal/room"
	"github.com/prudhvinik1/tablesync/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testDMPassword = "dungeon-master"

var testNow = time.UnixMilli(1700000000000)

type fakePeer struct {
	frames []any
	assets *AssetTracker
	closed bool
}

func newFakePeer() *fakePeer {
	return &fakePeer{assets: NewAssetTracker()}
}

func (p *fakePeer) Send(frame any) {
	p.frames = append(p.frames, frame)
}

func (p *fakePeer) SendSnapshot(snap *room.Snapshot, resync bool) {
	p.frames = append(p.frames, p.assets.Frame(snap, resync))
}

func (p *fakePeer) Close() {
	p.closed = true
}

func (p *fakePeer) reset() {
	p.frames = nil
}

func framesOf[T any](p *fakePeer) []T {
	var out []T
	for _, f := range p.frames {
		if v, ok := f.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

type testRoom struct {
	router   *Router
	registry *room.Registry
	conns    *Connections
}

func newTestRoom(t *testing.T, opts ...RouterOption) *testRoom {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testDMPassword), bcrypt.MinCost)
	require.NoError(t, err)
	auth := services.NewAuthService("", string(hash), "test-jwt-secret", time.Hour)
	registry := room.NewRegistry(repositories.NewMemoryRoomStore(), room.Options{})
	conns := NewConnections()
	opts = append([]RouterOption{WithClock(func() time.Time { return testNow })}, opts...)
	return &testRoom{
		router:   NewRouter(registry, conns, auth, opts...),
		registry: registry,
		conns:    conns,
	}
}

func frame(t *testing.T, v map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// join authenticates uid into room-1 and clears the peer's inbox.
func (tr *testRoom) join(t *testing.T, uid string) (*Session, *fakePeer) {
	t.Helper()
	peer := newFakePeer()
	sess := NewSession("sess-"+uid, peer)
	tr.router.Route(sess, frame(t, map[string]any{"type": "authenticate", "roomId": "room-1", "uid": uid, "name": uid}))
	require.True(t, sess.Authenticated(), "authentication should succeed for %s", uid)
	peer.reset()
	return sess, peer
}

func (tr *testRoom) state() *models.RoomState {
	return tr.registry.Get("room-1").State()
}

func (tr *testRoom) elevate(t *testing.T, sess *Session, peer *fakePeer) {
	t.Helper()
	tr.router.Route(sess, frame(t, map[string]any{"type": "elevate-to-dm", "dmPassword": testDMPassword}))
	statuses := framesOf[protocol.DMStatusFrame](peer)
	require.NotEmpty(t, statuses)
	require.True(t, statuses[len(statuses)-1].IsDM)
	peer.reset()
}

// TestRouter_Authenticate tests the join handshake: auth-ok, dm-status then a snapshot
func TestRouter_Authenticate(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	peer := newFakePeer()
	sess := NewSession("sess-1", peer)

	// ACT
	tr.router.Route(sess, frame(t, map[string]any{"type": "authenticate", "roomId": "room-1", "uid": "p1", "name": "Pike"}))

	// ASSERT
	require.Len(t, peer.frames, 3)
	assert.Equal(t, protocol.AuthOKFrame{Type: protocol.TypeAuthOK, UID: "p1", RoomID: "room-1"}, peer.frames[0])
	assert.Equal(t, protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: false}, peer.frames[1])
	snap, ok := peer.frames[2].(protocol.SnapshotFrame)
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.StateVersion)
	assert.Equal(t, []string{"p1"}, snap.State.Users)

	player, ok := tr.state().Player("p1")
	require.True(t, ok)
	assert.Equal(t, "Pike", player.Name)
	assert.Equal(t, []string{"p1"}, tr.conns.Members("room-1"))
}

func TestRouter_Authenticate_Failure(t *testing.T) {
	tr := newTestRoom(t)
	peer := newFakePeer()
	sess := NewSession("sess-1", peer)

	token, _, err := services.NewAuthService("", "", "other-secret", time.Hour).IssueToken("p1", "room-1", false)
	require.NoError(t, err)
	tr.router.Route(sess, frame(t, map[string]any{"type": "authenticate", "roomId": "room-1", "token": token}))

	require.Len(t, peer.frames, 1)
	fail, ok := peer.frames[0].(protocol.AuthFailFrame)
	require.True(t, ok)
	assert.NotEmpty(t, fail.Reason)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, tr.conns.Members("room-1"))
}

func TestRouter_Authenticate_AdminTokenGrantsDM(t *testing.T) {
	tr := newTestRoom(t)
	token, _, err := tr.router.auth.IssueToken("gm", "room-1", true)
	require.NoError(t, err)
	peer := newFakePeer()
	sess := NewSession("sess-gm", peer)

	tr.router.Route(sess, frame(t, map[string]any{"type": "authenticate", "roomId": "room-1", "token": token}))

	assert.Contains(t, peer.frames, protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: true})
	player, ok := tr.state().Player("gm")
	require.True(t, ok)
	assert.True(t, player.IsDM)
}

func TestRouter_RejectsBeforeAuthentication(t *testing.T) {
	tr := newTestRoom(t)
	peer := newFakePeer()
	sess := NewSession("sess-1", peer)

	tr.router.Route(sess, frame(t, map[string]any{"type": "move", "commandId": "c1", "id": "t1", "x": 1, "y": 1}))
	tr.router.Route(sess, frame(t, map[string]any{"type": "pointer", "x": 1, "y": 1}))

	assert.Equal(t, []any{protocol.NewNack("c1", ReasonNotAuthenticated)}, peer.frames)
}

// TestRouter_DropsMalformedFrames tests that bad input never escapes the router
func TestRouter_DropsMalformedFrames(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "p1")
	version := tr.state().StateVersion

	inputs := [][]byte{
		[]byte(`not json`),
		[]byte(`{"type":"summon-dragon"}`),
		[]byte(`{"type":"move","commandId":"c1"}`),
		[]byte(`{"type":"grid-size","size":-1}`),
		[]byte(`{}`),
		nil,
	}

	// ACT & ASSERT
	for _, raw := range inputs {
		assert.NotPanics(t, func() { tr.router.Route(sess, raw) })
	}
	assert.Empty(t, peer.frames)
	assert.Equal(t, version, tr.state().StateVersion)
}

// TestRouter_CommandAckAndDelta tests a tracked command: delta to the room, ack to the sender
func TestRouter_CommandAckAndDelta(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, peerA := tr.join(t, "A")
	_, peerB := tr.join(t, "B")
	peerA.reset()
	version := tr.state().StateVersion

	// ACT
	tr.router.Route(sessA, frame(t, map[string]any{"type": "create-token", "commandId": "c1", "x": 3, "y": 4, "color": "red"}))

	// ASSERT
	require.Len(t, peerA.frames, 2)
	delta, ok := peerA.frames[0].(*protocol.DeltaFrame)
	require.True(t, ok)
	assert.Equal(t, protocol.EntityTokenCreated, delta.Entity)
	assert.Equal(t, version+1, delta.StateVersion)
	token, ok := delta.Data.(models.Token)
	require.True(t, ok)
	assert.Equal(t, "A", token.Owner)
	assert.Equal(t, protocol.NewAck("c1"), peerA.frames[1])

	assert.Equal(t, []*protocol.DeltaFrame{delta}, framesOf[*protocol.DeltaFrame](peerB))
	assert.Empty(t, framesOf[protocol.AckFrame](peerB), "only the sender is acked")
	assert.Equal(t, version+1, tr.state().StateVersion)
}

// TestRouter_OwnershipMismatchNacks tests that moving someone else's token is refused
func TestRouter_OwnershipMismatchNacks(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, _ := tr.join(t, "A")
	sessB, peerB := tr.join(t, "B")
	tr.router.Route(sessA, frame(t, map[string]any{"type": "create-token", "x": 0, "y": 0, "color": "red"}))
	tokenID := tr.state().Tokens[0].ID
	peerB.reset()
	version := tr.state().StateVersion

	// ACT
	tr.router.Route(sessB, frame(t, map[string]any{"type": "move", "commandId": "c9", "id": tokenID, "x": 9, "y": 9}))

	// ASSERT
	assert.Equal(t, []any{protocol.NewNack("c9", ReasonRejected)}, peerB.frames)
	assert.Equal(t, version, tr.state().StateVersion)
	assert.Equal(t, 0.0, tr.state().Tokens[0].X)
}

// TestRouter_DMOnlyGate tests that the fixed DM-only set is rejected before any handler runs
func TestRouter_DMOnlyGate(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "p1")

	// ACT: as a player
	tr.router.Route(sess, frame(t, map[string]any{"type": "grid-size", "commandId": "c1", "size": 70}))

	// ASSERT
	assert.Equal(t, []any{protocol.NewNack("c1", ReasonDMOnly)}, peer.frames)
	assert.Equal(t, float64(models.DefaultGridSize), tr.state().Grid.Size)

	// ACT: as the DM
	tr.elevate(t, sess, peer)
	tr.router.Route(sess, frame(t, map[string]any{"type": "grid-size", "commandId": "c2", "size": 70}))

	// ASSERT
	deltas := framesOf[*protocol.DeltaFrame](peer)
	require.Len(t, deltas, 1)
	assert.Equal(t, protocol.EntityGridUpdated, deltas[0].Entity)
	assert.Contains(t, peer.frames, protocol.NewAck("c2"))
	assert.Equal(t, 70.0, tr.state().Grid.Size)
}

func TestRouter_HandlerLevelDMCheck(t *testing.T) {
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "p1")

	tr.router.Route(sess, frame(t, map[string]any{"type": "create-prop", "commandId": "c1", "label": "tree"}))

	assert.Equal(t, []any{protocol.NewNack("c1", ReasonRejected)}, peer.frames)
	assert.Empty(t, tr.state().Props)
}

func TestRouter_ElevateToDM_WrongPassword(t *testing.T) {
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "p1")

	tr.router.Route(sess, frame(t, map[string]any{"type": "elevate-to-dm", "commandId": "c1", "dmPassword": "guess"}))

	assert.Equal(t, []any{
		protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: false},
		protocol.NewNack("c1", ReasonInvalidPassword),
	}, peer.frames)
}

// TestRouter_SelectionTakeover tests the two-user takeover scenario through the router
func TestRouter_SelectionTakeover(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, peerA := tr.join(t, "A")
	sessB, _ := tr.join(t, "B")
	tr.router.Route(sessA, frame(t, map[string]any{"type": "select-multiple", "objectIds": []string{"t1", "t2"}, "mode": "replace"}))
	peerA.reset()

	// ACT
	tr.router.Route(sessB, frame(t, map[string]any{"type": "select-object", "objectId": "t2"}))

	// ASSERT
	state := tr.state()
	assert.Equal(t, models.SingleSelection("t2"), state.SelectionState["B"])
	assert.Equal(t, models.SingleSelection("t1"), state.SelectionState["A"])
	deltas := framesOf[*protocol.DeltaFrame](peerA)
	require.Len(t, deltas, 1)
	assert.Equal(t, protocol.EntitySelectionUpdated, deltas[0].Entity)
}

func TestRouter_IdempotentSelectDoesNotBumpVersion(t *testing.T) {
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "A")
	tr.router.Route(sess, frame(t, map[string]any{"type": "select-object", "objectId": "t1"}))
	version := tr.state().StateVersion
	peer.reset()

	tr.router.Route(sess, frame(t, map[string]any{"type": "select-object", "commandId": "c1", "objectId": "t1"}))

	assert.Equal(t, []any{protocol.NewAck("c1")}, peer.frames)
	assert.Equal(t, version, tr.state().StateVersion)
}

func TestRouter_Heartbeat(t *testing.T) {
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "p1")

	tr.router.Route(sess, frame(t, map[string]any{"type": "heartbeat"}))

	assert.Equal(t, []any{protocol.HeartbeatAckFrame{Type: protocol.TypeHeartbeatAck, Timestamp: testNow.UnixMilli()}}, peer.frames)
}

// TestRouter_EphemeralRelays tests pointer and drag previews reach others without a version bump
func TestRouter_EphemeralRelays(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, peerA := tr.join(t, "A")
	_, peerB := tr.join(t, "B")
	peerA.reset()
	version := tr.state().StateVersion

	// ACT
	tr.router.Route(sessA, frame(t, map[string]any{"type": "pointer", "x": 5, "y": 6}))
	tr.router.Route(sessA, frame(t, map[string]any{"type": "drag-preview", "objects": []map[string]any{{"id": "t1", "x": 1, "y": 2}}}))

	// ASSERT
	assert.Empty(t, peerA.frames, "the sender gets no echo")
	require.Len(t, peerB.frames, 2)
	assert.Equal(t, protocol.PointerPreviewFrame{
		Type:    protocol.TypePointerPreview,
		Pointer: models.Pointer{UID: "A", X: 5, Y: 6, Timestamp: testNow.UnixMilli()},
	}, peerB.frames[0])
	preview, ok := peerB.frames[1].(protocol.DragPreviewFrame)
	require.True(t, ok)
	assert.Equal(t, "A", preview.UID)
	assert.Equal(t, version, tr.state().StateVersion)
}

func TestRouter_SignalRelayTargetsOneUser(t *testing.T) {
	tr := newTestRoom(t)
	sessA, _ := tr.join(t, "A")
	_, peerB := tr.join(t, "B")
	_, peerC := tr.join(t, "C")
	peerB.reset()

	tr.router.Route(sessA, frame(t, map[string]any{"type": "rtc-signal", "target": "C", "signal": map[string]any{"sdp": "offer"}}))

	assert.Empty(t, peerB.frames)
	require.Len(t, peerC.frames, 1)
	signal, ok := peerC.frames[0].(protocol.SignalFrame)
	require.True(t, ok)
	assert.Equal(t, "A", signal.From)
	assert.JSONEq(t, `{"sdp":"offer"}`, string(signal.Signal))
}

// TestRouter_Disconnect tests that leaving releases selection and notifies the room
func TestRouter_Disconnect(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, _ := tr.join(t, "A")
	_, peerB := tr.join(t, "B")
	tr.router.Route(sessA, frame(t, map[string]any{"type": "select-object", "objectId": "t1"}))
	tr.router.Route(sessA, frame(t, map[string]any{"type": "pointer", "x": 1, "y": 1}))
	peerB.reset()

	// ACT
	tr.router.Disconnect(sessA)

	// ASSERT
	state := tr.state()
	assert.Equal(t, []string{"B"}, state.Users)
	assert.NotContains(t, state.SelectionState, "A")
	assert.Empty(t, state.Pointers)
	snaps := framesOf[protocol.SnapshotFrame](peerB)
	require.Len(t, snaps, 1)
	assert.Equal(t, []string{"B"}, snaps[0].State.Users)
	assert.Equal(t, []string{"B"}, tr.conns.Members("room-1"))
}

func TestRouter_SupersededConnection(t *testing.T) {
	tr := newTestRoom(t)
	first, firstPeer := tr.join(t, "A")
	second, _ := tr.join(t, "A")

	assert.True(t, firstPeer.closed)
	tr.router.Disconnect(first)
	assert.Equal(t, []string{"A"}, tr.state().Users, "the old connection leaves no trace")

	tr.router.Disconnect(second)
	assert.Empty(t, tr.state().Users)
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	if _, ok := msg.(*protocol.Move); ok {
		panic("boom")
	}
	return nil, false
}

func TestRouter_RecoversFromHandlerPanic(t *testing.T) {
	tr := newTestRoom(t, WithDispatchers(panickingDispatcher{}))
	sess, peer := tr.join(t, "p1")

	assert.NotPanics(t, func() {
		tr.router.Route(sess, frame(t, map[string]any{"type": "move", "commandId": "c1", "id": "t1", "x": 1, "y": 1}))
	})
	assert.Equal(t, []any{protocol.NewNack("c1", ReasonInternal)}, peer.frames)

	tr.router.Route(sess, frame(t, map[string]any{"type": "heartbeat"}))
	assert.Len(t, peer.frames, 2, "the session keeps working")
}

// TestRouter_SnapshotAssetsDeduplicated tests that unchanged assets are sent once per connection until resync
func TestRouter_SnapshotAssetsDeduplicated(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "dm")
	tr.elevate(t, sess, peer)
	tr.router.Route(sess, frame(t, map[string]any{"type": "map-background", "data": "data:image/png;base64,AAAA"}))
	first := framesOf[protocol.SnapshotFrame](peer)
	require.Len(t, first, 1)
	require.Len(t, first[0].Assets, 1)
	assetID := first[0].AssetRefs["map-background"]
	peer.reset()

	// ACT
	tr.router.Route(sess, frame(t, map[string]any{"type": "clear-drawings"}))
	tr.router.Route(sess, frame(t, map[string]any{"type": "draw", "points": []map[string]any{{"x": 1, "y": 1}}}))
	tr.router.Route(sess, frame(t, map[string]any{"type": "clear-drawings"}))
	again := framesOf[protocol.SnapshotFrame](peer)
	peer.reset()
	tr.router.Route(sess, frame(t, map[string]any{"type": "request-resync"}))
	resync := framesOf[protocol.SnapshotFrame](peer)

	// ASSERT
	require.Len(t, again, 1, "clear-drawings with drawings broadcasts a snapshot")
	assert.Equal(t, assetID, again[0].AssetRefs["map-background"])
	assert.Empty(t, again[0].Assets, "the background was already delivered")
	require.Len(t, resync, 1)
	require.Len(t, resync[0].Assets, 1)
	assert.Equal(t, assetID, resync[0].Assets[0].ID)
	assert.Empty(t, resync[0].State.MapBackground, "heavy fields travel as assets")
}

func TestRouter_DeleteTokenScrubsSelection(t *testing.T) {
	tr := newTestRoom(t)
	sessA, peerA := tr.join(t, "A")
	sessB, _ := tr.join(t, "B")
	tr.router.Route(sessA, frame(t, map[string]any{"type": "create-token", "x": 0, "y": 0, "color": "red"}))
	tokenID := tr.state().Tokens[0].ID
	tr.router.Route(sessB, frame(t, map[string]any{"type": "select-object", "objectId": tokenID}))
	peerA.reset()

	tr.router.Route(sessA, frame(t, map[string]any{"type": "delete-token", "commandId": "c1", "id": tokenID}))

	assert.Empty(t, tr.state().Tokens)
	assert.Empty(t, tr.state().SelectionState)
	assert.Len(t, framesOf[protocol.SnapshotFrame](peerA), 1)
	assert.Contains(t, peerA.frames, protocol.NewAck("c1"))
}

// TestRouter_EraseDrawingScrubsSelection tests that an erased drawing leaves no selection behind
func TestRouter_EraseDrawingScrubsSelection(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, peerA := tr.join(t, "A")
	sessB, _ := tr.join(t, "B")
	tr.router.Route(sessA, frame(t, map[string]any{"type": "draw", "points": []map[string]any{{"x": 1, "y": 1}}}))
	tr.router.Route(sessA, frame(t, map[string]any{"type": "draw", "points": []map[string]any{{"x": 2, "y": 2}}}))
	kept, erased := tr.state().Drawings[0].ID, tr.state().Drawings[1].ID
	tr.router.Route(sessB, frame(t, map[string]any{"type": "select-object", "objectId": erased}))
	peerA.reset()

	// ACT
	tr.router.Route(sessA, frame(t, map[string]any{"type": "erase-drawing", "commandId": "c1", "id": erased}))
	scrubbed := framesOf[protocol.SnapshotFrame](peerA)
	peerA.reset()
	tr.router.Route(sessA, frame(t, map[string]any{"type": "erase-drawing", "commandId": "c2", "id": kept}))

	// ASSERT
	assert.Empty(t, tr.state().Drawings)
	assert.Empty(t, tr.state().SelectionState)
	assert.Len(t, scrubbed, 1, "scrubbing a selection broadcasts a snapshot")
	deltas := framesOf[*protocol.DeltaFrame](peerA)
	require.Len(t, deltas, 1, "an unselected drawing goes out as a delta")
	assert.Equal(t, protocol.EntityDrawingDeleted, deltas[0].Entity)
	assert.Contains(t, peerA.frames, protocol.NewAck("c2"))
}

func TestRouter_ClearDrawingsScrubsSelection(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessDM, peerDM := tr.join(t, "dm")
	tr.elevate(t, sessDM, peerDM)
	sessB, _ := tr.join(t, "B")
	tr.router.Route(sessB, frame(t, map[string]any{"type": "draw", "points": []map[string]any{{"x": 1, "y": 1}}}))
	tr.router.Route(sessB, frame(t, map[string]any{"type": "draw", "points": []map[string]any{{"x": 2, "y": 2}}}))
	ids := []string{tr.state().Drawings[0].ID, tr.state().Drawings[1].ID}
	tr.router.Route(sessB, frame(t, map[string]any{"type": "select-multiple", "objectIds": ids, "mode": "replace"}))
	require.Contains(t, tr.state().SelectionState, "B")

	// ACT
	tr.router.Route(sessDM, frame(t, map[string]any{"type": "clear-drawings", "commandId": "c1"}))

	// ASSERT
	assert.Empty(t, tr.state().Drawings)
	assert.Empty(t, tr.state().SelectionState)
	assert.Contains(t, peerDM.frames, protocol.NewAck("c1"))
}

func TestRouter_DeleteCharacterScrubsSelection(t *testing.T) {
	// ARRANGE
	tr := newTestRoom(t)
	sessA, peerA := tr.join(t, "A")
	sessB, _ := tr.join(t, "B")
	tr.router.Route(sessA, frame(t, map[string]any{"type": "create-character", "name": "Mira", "hp": 10, "maxHp": 10}))
	require.Len(t, tr.state().Characters, 1)
	charID := tr.state().Characters[0].ID
	tr.router.Route(sessB, frame(t, map[string]any{"type": "select-object", "objectId": charID}))
	peerA.reset()

	// ACT
	tr.router.Route(sessA, frame(t, map[string]any{"type": "delete-character", "commandId": "c1", "id": charID}))

	// ASSERT
	assert.Empty(t, tr.state().Characters)
	assert.Empty(t, tr.state().SelectionState)
	assert.Len(t, framesOf[protocol.SnapshotFrame](peerA), 1)
	assert.Contains(t, peerA.frames, protocol.NewAck("c1"))
}

func TestRouter_DeleteRoom(t *testing.T) {
	tr := newTestRoom(t)
	sess, peer := tr.join(t, "A")

	require.NoError(t, tr.router.DeleteRoom("room-1"))

	assert.True(t, peer.closed)
	assert.Empty(t, tr.router.ListRooms())
	assert.NotPanics(t, func() { tr.router.Disconnect(sess) })
	assert.ErrorIs(t, tr.router.DeleteRoom("room-1"), room.ErrRoomNotFound)
}
