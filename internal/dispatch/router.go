package dispatch

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/room"
	"github.com/prudhvinik1/tablesync/internal/services"
	"github.com/rs/zerolog/log"
)

// Router is the single entry point for inbound frames. It is not safe for
// concurrent use: every call must come from the dispatch loop.
type Router struct {
	registry    *room.Registry
	outbox      Outbox
	auth        *services.AuthService
	authz       *services.AuthorizationService
	players     *services.PlayerService
	selection   *services.SelectionService
	dispatchers []Dispatcher
	now         func() time.Time
}

type RouterOption func(*Router)

func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) { r.now = now }
}

// WithDispatchers puts ds ahead of the default chain.
func WithDispatchers(ds ...Dispatcher) RouterOption {
	return func(r *Router) { r.dispatchers = append(append([]Dispatcher{}, ds...), r.dispatchers...) }
}

func NewRouter(registry *room.Registry, outbox Outbox, auth *services.AuthService, opts ...RouterOption) *Router {
	selection := services.NewSelectionService()
	players := services.NewPlayerService()
	r := &Router{
		registry:  registry,
		outbox:    outbox,
		auth:      auth,
		authz:     services.NewAuthorizationService(),
		players:   players,
		selection: selection,
		dispatchers: []Dispatcher{
			NewMovementDispatcher(services.NewTokenService(nil), selection),
			NewSelectionDispatcher(selection),
			NewPropsDispatcher(services.NewPropService(nil), selection),
			NewCharactersDispatcher(services.NewCharacterService(nil), selection),
			NewInitiativeDispatcher(services.NewInitiativeService()),
			NewBoardDispatcher(services.NewBoardService(), services.NewDrawingService(nil), selection),
			NewPlayersDispatcher(players, services.NewDiceService(nil), auth),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route decodes and handles one frame from sess. Nothing escapes: bad input
// is logged and dropped, and a panicking handler is recovered.
func (r *Router) Route(sess *Session, raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		event := log.Warn()
		if errors.Is(err, protocol.ErrUnknownMessageType) {
			event = log.Debug()
		}
		event.Err(err).Str("module", "dispatch.router").Str("session", sess.ID).Msg("dropping inbound frame")
		return
	}
	env := msg.Header()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("module", "dispatch.router").
				Str("session", sess.ID).
				Str("type", string(env.Type)).
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			r.reject(sess, env, ReasonInternal)
		}
	}()

	switch m := msg.(type) {
	case *protocol.Authenticate:
		r.authenticate(sess, m)
		return
	case *protocol.Heartbeat:
		sess.Peer.Send(protocol.HeartbeatAckFrame{Type: protocol.TypeHeartbeatAck, Timestamp: r.now().UnixMilli()})
		return
	}

	if !r.attached(sess) {
		log.Debug().Str("module", "dispatch.router").Str("session", sess.ID).Str("type", string(env.Type)).Msg("message from unauthenticated or detached session")
		r.reject(sess, env, ReasonNotAuthenticated)
		return
	}

	owner := r.registry.Get(sess.RoomID)
	if _, ok := msg.(*protocol.RequestResync); ok {
		r.sendSnapshot(owner, sess.Peer, true)
		return
	}

	rc := &RouteContext{
		RoomID: sess.RoomID,
		State:  owner.State(),
		IsDM:   r.authz.IsDM(owner.State(), sess.UserID),
		Now:    r.now(),
	}
	if !r.authz.IsAuthorized(rc.State, sess.UserID, env.Type) {
		log.Warn().Str("module", "dispatch.router").Str("room", sess.RoomID).Str("user", sess.UserID).Str("type", string(env.Type)).Msg("dm-only message rejected")
		r.reject(sess, env, ReasonDMOnly)
		return
	}

	res := r.dispatch(msg, rc, sess.UserID)
	if res == nil {
		log.Warn().Str("module", "dispatch.router").Str("type", string(env.Type)).Msg("no dispatcher for message")
		r.reject(sess, env, ReasonUnsupported)
		return
	}
	r.apply(sess, owner, env, res)
}

// attached reports whether sess is authenticated and still the registered
// connection of its user; superseded and evicted sessions are not.
func (r *Router) attached(sess *Session) bool {
	if !sess.Authenticated() {
		return false
	}
	peer, ok := r.outbox.Lookup(sess.RoomID, sess.UserID)
	return ok && peer == sess.Peer
}

func (r *Router) dispatch(msg protocol.Message, rc *RouteContext, senderID string) *Result {
	for _, d := range r.dispatchers {
		if res, ok := d.Dispatch(msg, rc, senderID); ok {
			return res
		}
	}
	return nil
}

func (r *Router) apply(sess *Session, owner *room.Owner, env *protocol.Envelope, res *Result) {
	if res.Rejected != "" {
		log.Debug().Str("module", "dispatch.router").Str("room", sess.RoomID).Str("user", sess.UserID).Str("type", string(env.Type)).Str("reason", res.Rejected).Msg("command rejected")
		r.send(sess.Peer, res.Replies)
		r.reject(sess, env, res.Rejected)
		return
	}

	if res.Changed {
		version := owner.Commit()
		if res.Delta != nil {
			res.Delta.StateVersion = version
			r.broadcast(sess.RoomID, res.Delta, "")
		} else {
			r.broadcastSnapshot(owner)
		}
	}

	r.send(sess.Peer, res.Replies)
	for _, relay := range res.Relays {
		r.relay(sess, relay)
	}
	if env.CommandID != "" && protocol.IsTracked(env.Type) {
		sess.Peer.Send(protocol.NewAck(env.CommandID))
	}
}

func (r *Router) authenticate(sess *Session, m *protocol.Authenticate) {
	if sess.Authenticated() {
		sess.Peer.Send(protocol.AuthFailFrame{Type: protocol.TypeAuthFail, Reason: "already authenticated"})
		return
	}
	identity, err := r.auth.Authenticate(services.AuthRequest{
		RoomID: m.RoomID,
		UID:    m.UID,
		Secret: m.Secret,
		Token:  m.Token,
	})
	if err != nil {
		log.Warn().Err(err).Str("module", "dispatch.router").Str("session", sess.ID).Str("room", m.RoomID).Msg("authentication failed")
		sess.Peer.Send(protocol.AuthFailFrame{Type: protocol.TypeAuthFail, Reason: err.Error()})
		return
	}

	sess.UserID = identity.UID
	sess.RoomID = identity.RoomID
	if prev := r.outbox.Join(sess.RoomID, sess.UserID, sess.Peer); prev != nil {
		log.Info().Str("module", "dispatch.router").Str("room", sess.RoomID).Str("user", sess.UserID).Msg("connection superseded")
		prev.Close()
	}

	owner := r.registry.Get(sess.RoomID)
	state := owner.State()
	player := r.players.Join(state, sess.UserID, m.Name)
	if identity.Admin && !player.IsDM {
		player, _ = r.players.SetDM(state, sess.UserID, true)
	}
	owner.Commit()

	log.Info().Str("module", "dispatch.router").Str("room", sess.RoomID).Str("user", sess.UserID).Bool("dm", player.IsDM).Msg("user joined")
	sess.Peer.Send(protocol.AuthOKFrame{Type: protocol.TypeAuthOK, UID: sess.UserID, RoomID: sess.RoomID})
	sess.Peer.Send(protocol.DMStatusFrame{Type: protocol.TypeDMStatus, IsDM: player.IsDM})
	r.broadcastSnapshot(owner)
}

// Disconnect releases what the session held in its room: selection, pointer
// and connected-list entry. A superseded session leaves no trace.
func (r *Router) Disconnect(sess *Session) {
	if !sess.Authenticated() {
		return
	}
	if !r.outbox.Leave(sess.RoomID, sess.UserID, sess.Peer) {
		return
	}
	owner, ok := r.registry.Lookup(sess.RoomID)
	if !ok {
		return
	}

	state := owner.State()
	released := r.selection.Deselect(state, sess.UserID)
	left := r.players.Leave(state, sess.UserID)
	log.Info().Str("module", "dispatch.router").Str("room", sess.RoomID).Str("user", sess.UserID).Msg("user left")
	if !released && !left {
		return
	}
	owner.Commit()
	r.broadcastSnapshot(owner)
}

// DeleteRoom disconnects everyone in the room and removes it.
func (r *Router) DeleteRoom(roomID string) error {
	for _, peer := range r.outbox.Evict(roomID) {
		peer.Close()
	}
	return r.registry.Delete(roomID)
}

// ListRooms returns every room id known to the registry.
func (r *Router) ListRooms() []string {
	return r.registry.ListRooms()
}

func (r *Router) reject(sess *Session, env *protocol.Envelope, reason string) {
	if env.CommandID == "" || !protocol.IsTracked(env.Type) {
		return
	}
	sess.Peer.Send(protocol.NewNack(env.CommandID, reason))
}

func (r *Router) send(peer Peer, frames []any) {
	for _, f := range frames {
		peer.Send(f)
	}
}

func (r *Router) relay(sess *Session, relay Relay) {
	if relay.To == "" {
		r.broadcast(sess.RoomID, relay.Frame, sess.UserID)
		return
	}
	peer, ok := r.outbox.Lookup(sess.RoomID, relay.To)
	if !ok {
		log.Debug().Str("module", "dispatch.router").Str("room", sess.RoomID).Str("target", relay.To).Msg("relay target not connected")
		return
	}
	peer.Send(relay.Frame)
}

func (r *Router) broadcast(roomID string, frame any, exceptUserID string) {
	for _, userID := range r.outbox.Members(roomID) {
		if userID == exceptUserID {
			continue
		}
		if peer, ok := r.outbox.Lookup(roomID, userID); ok {
			peer.Send(frame)
		}
	}
}

func (r *Router) broadcastSnapshot(owner *room.Owner) {
	snap, err := owner.Snapshot()
	if err != nil {
		log.Error().Err(err).Str("module", "dispatch.router").Str("room", owner.RoomID()).Msg("failed to build snapshot")
		return
	}
	for _, userID := range r.outbox.Members(owner.RoomID()) {
		if peer, ok := r.outbox.Lookup(owner.RoomID(), userID); ok {
			peer.SendSnapshot(snap, false)
		}
	}
}

func (r *Router) sendSnapshot(owner *room.Owner, peer Peer, resync bool) {
	snap, err := owner.Snapshot()
	if err != nil {
		log.Error().Err(err).Str("module", "dispatch.router").Str("room", owner.RoomID()).Msg("failed to build snapshot")
		return
	}
	peer.SendSnapshot(snap, resync)
}
