package dispatch

import (
	"time"

	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
)

// Nack reasons.
const (
	ReasonDMOnly           = "dm-only"
	ReasonRejected         = "rejected"
	ReasonNotAuthenticated = "not-authenticated"
	ReasonUnsupported      = "unsupported"
	ReasonInternal         = "internal-error"
	ReasonInvalidPassword  = "invalid-dm-password"
	ReasonRateLimited      = "rate-limited"
)

// RouteContext is what a handler sees of the room it runs against.
type RouteContext struct {
	RoomID string
	State  *models.RoomState
	IsDM   bool
	Now    time.Time
}

// Relay is an ephemeral frame that does not touch the state version.
type Relay struct {
	// To names the receiving user; empty means the whole room but the sender.
	To    string
	Frame any
}

// Result is a handler's verdict on one message.
type Result struct {
	// Changed commits the state: one version bump and one store write.
	Changed bool
	// Delta is broadcast after a commit. A changed result without a delta
	// broadcasts a full snapshot.
	Delta *protocol.DeltaFrame
	// Rejected is the nack reason for a refused command.
	Rejected string
	// Replies go to the sender only.
	Replies []any
	Relays  []Relay
}

// Dispatcher handles one domain's messages. It reports false for message
// types it does not own so the router can try the next one.
type Dispatcher interface {
	Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool)
}

func changed(entity string, data any) *Result {
	return &Result{Changed: true, Delta: protocol.NewDelta(entity, data)}
}

func changedSnapshot() *Result {
	return &Result{Changed: true}
}

func unchanged() *Result {
	return &Result{}
}

func rejected(reason string) *Result {
	return &Result{Rejected: reason}
}

// check maps a domain service's boolean into a result.
func check(ok bool, onSuccess func() *Result) *Result {
	if !ok {
		return rejected(ReasonRejected)
	}
	return onSuccess()
}

// deleted broadcasts a *-deleted delta, or a snapshot when the delete also
// touched other entities.
func deleted(entity, id string, sideEffects bool) *Result {
	if sideEffects {
		return changedSnapshot()
	}
	return changed(entity, protocol.DeletedData{ID: id})
}
