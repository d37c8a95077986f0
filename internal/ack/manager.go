// Package ack correlates outbound commands with the server's ack and nack
// replies for one connection.
package ack

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
)

const ReasonUnspecified = "unspecified"

type Status string

const (
	StatusAcked   Status = "acked"
	StatusNacked  Status = "nacked"
	StatusDropped Status = "dropped"
	StatusUnknown Status = "unknown"
)

// Outcome describes how a pending command was resolved. Unknown ids resolve
// to StatusUnknown and change nothing.
type Outcome struct {
	CommandID string
	Type      protocol.MessageType
	Status    Status
	Reason    string
	Latency   time.Duration
}

func (o Outcome) OK() bool {
	return o.Status == StatusAcked
}

type pending struct {
	msgType protocol.MessageType
	sentAt  time.Time
}

// Manager tracks commands awaiting an ack. Its table is scoped to one
// connection and must be Reset on reconnect.
type Manager struct {
	mu      deadlock.Mutex
	pending map[string]pending
	counter uint64
	now     func() time.Time
	newID   func() (string, error)
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDSource replaces the random id source. When it errors the manager
// falls back to a counter.
func WithIDSource(newID func() (string, error)) Option {
	return func(m *Manager) { m.newID = newID }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		pending: make(map[string]pending),
		now:     time.Now,
		newID:   randomID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func randomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Attach returns a copy of a tracked message stamped with a fresh command
// id and starts tracking it. msg itself is never modified, so the same value
// can be attached again after a drop or a Reset. Untracked types and
// caller-supplied ids pass through untouched.
func (m *Manager) Attach(msg protocol.Message) protocol.Message {
	env := msg.Header()
	if !protocol.IsTracked(env.Type) || env.CommandID != "" {
		return msg
	}
	out, err := protocol.Clone(msg)
	if err != nil {
		log.Warn().Err(err).Str("module", "ack.manager").Str("type", string(env.Type)).Msg("cannot track command")
		return msg
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID()
	out.Header().CommandID = id
	m.pending[id] = pending{msgType: env.Type, sentAt: m.now()}
	return out
}

// nextID must be called with m.mu held.
func (m *Manager) nextID() string {
	m.counter++
	if id, err := m.newID(); err == nil && id != "" {
		if _, taken := m.pending[id]; !taken {
			return id
		}
	}
	return fmt.Sprintf("cmd-%d", m.counter)
}

func (m *Manager) HandleAck(commandID string) Outcome {
	out, ok := m.resolve(commandID, StatusAcked, "")
	if !ok {
		log.Warn().Str("module", "ack.manager").Str("command_id", commandID).Msg("ack for unknown command")
		return out
	}
	log.Debug().Str("module", "ack.manager").Str("command_id", commandID).Str("type", string(out.Type)).Dur("latency", out.Latency).Msg("command acked")
	return out
}

func (m *Manager) HandleNack(commandID, reason string) Outcome {
	if reason == "" {
		reason = ReasonUnspecified
	}
	out, ok := m.resolve(commandID, StatusNacked, reason)
	if !ok {
		log.Warn().Str("module", "ack.manager").Str("command_id", commandID).Str("reason", reason).Msg("nack for unknown command")
		return out
	}
	log.Warn().Str("module", "ack.manager").Str("command_id", commandID).Str("type", string(out.Type)).Str("reason", reason).Msg("command rejected")
	return out
}

// HandleDrop forgets a command that will never reach the server.
func (m *Manager) HandleDrop(msg protocol.Message, reason string) Outcome {
	commandID := msg.Header().CommandID
	if commandID == "" {
		return Outcome{Type: msg.Header().Type, Status: StatusUnknown, Reason: reason}
	}
	out, ok := m.resolve(commandID, StatusDropped, reason)
	if ok {
		log.Warn().Str("module", "ack.manager").Str("command_id", commandID).Str("type", string(out.Type)).Str("reason", reason).Msg("command dropped")
	}
	return out
}

// Pending reports how many commands await a reply.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Manager) IsPending(commandID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[commandID]
	return ok
}

// Reset clears every pending command and the id counter.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = make(map[string]pending)
	m.counter = 0
}

func (m *Manager) resolve(commandID string, status Status, reason string) (Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[commandID]
	if !ok {
		return Outcome{CommandID: commandID, Status: StatusUnknown, Reason: reason}, false
	}
	delete(m.pending, commandID)

	latency := m.now().Sub(p.sentAt)
	if latency < 0 {
		latency = 0
	}
	return Outcome{
		CommandID: commandID,
		Type:      p.msgType,
		Status:    status,
		Reason:    reason,
		Latency:   latency,
	}, true
}
