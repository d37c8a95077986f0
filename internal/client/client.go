// Package client is a websocket client for a room. It stamps command ids on
// tracked commands and reports how each one was resolved.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prudhvinik1/tablesync/internal/ack"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/sasha-s/go-deadlock"
)

var (
	ErrClosed       = errors.New("client closed")
	ErrDisconnected = errors.New("not connected")
	ErrAuthFailed   = errors.New("authentication failed")
)

const (
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultBuffer           = 256
)

// Frame is a server frame other than ack and nack.
type Frame struct {
	Type protocol.MessageType
	Data []byte
}

func (f Frame) Decode(v any) error {
	return json.Unmarshal(f.Data, v)
}

type Options struct {
	Dialer           *websocket.Dialer
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Buffer           int
	Ack              []ack.Option
}

type Client struct {
	url          string
	auth         protocol.Authenticate
	dialer       *websocket.Dialer
	timeout      time.Duration
	writeTimeout time.Duration
	acks         *ack.Manager

	mu       deadlock.Mutex
	conn     *websocket.Conn
	identity protocol.AuthOKFrame

	frames    chan Frame
	outcomes  chan ack.Outcome
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects and authenticates. It returns once the server has accepted
// or refused the join.
func Dial(ctx context.Context, url string, auth protocol.Authenticate, opts Options) (*Client, error) {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	auth.Type = protocol.TypeAuthenticate

	c := &Client{
		url:          url,
		auth:         auth,
		dialer:       opts.Dialer,
		timeout:      opts.HandshakeTimeout,
		writeTimeout: opts.WriteTimeout,
		acks:         ack.NewManager(opts.Ack...),
		frames:       make(chan Frame, opts.Buffer),
		outcomes:     make(chan ack.Outcome, opts.Buffer),
		done:         make(chan struct{}),
	}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.url, err)
	}

	identity, err := c.handshake(conn)
	if err != nil {
		_ = conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.identity = identity
	c.mu.Unlock()

	log.Debug().Str("module", "client").Str("room", identity.RoomID).Str("user", identity.UID).Msg("connected")
	go c.readLoop(conn)
	return nil
}

func (c *Client) handshake(conn *websocket.Conn) (protocol.AuthOKFrame, error) {
	var ok protocol.AuthOKFrame
	auth := c.auth
	if err := conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return ok, err
	}
	if err := conn.WriteJSON(&auth); err != nil {
		return ok, fmt.Errorf("failed to send authenticate: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return ok, err
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return ok, fmt.Errorf("failed to read authentication reply: %w", err)
	}
	msgType, err := protocol.PeekType(data)
	if err != nil {
		return ok, err
	}
	switch msgType {
	case protocol.TypeAuthOK:
		if err := json.Unmarshal(data, &ok); err != nil {
			return ok, err
		}
	case protocol.TypeAuthFail:
		var fail protocol.AuthFailFrame
		_ = json.Unmarshal(data, &fail)
		return ok, fmt.Errorf("%w: %s", ErrAuthFailed, fail.Reason)
	default:
		return ok, fmt.Errorf("unexpected %s before auth-ok", msgType)
	}
	return ok, conn.SetReadDeadline(time.Time{})
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.detach(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("module", "client").Msg("read loop stopped")
			return
		}
		msgType, err := protocol.PeekType(data)
		if err != nil {
			log.Warn().Err(err).Str("module", "client").Msg("ignoring malformed frame")
			continue
		}

		switch msgType {
		case protocol.TypeAck:
			var f protocol.AckFrame
			if err := json.Unmarshal(data, &f); err != nil {
				continue
			}
			c.emit(c.acks.HandleAck(f.CommandID))
		case protocol.TypeNack:
			var f protocol.NackFrame
			if err := json.Unmarshal(data, &f); err != nil {
				continue
			}
			c.emit(c.acks.HandleNack(f.CommandID, f.Reason))
		default:
			select {
			case c.frames <- Frame{Type: msgType, Data: data}:
			case <-c.done:
				return
			}
		}
	}
}

// detach forgets conn once the server has gone away. Later sends fail with
// ErrDisconnected until Reconnect.
func (c *Client) detach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()
}

func (c *Client) emit(out ack.Outcome) {
	if out.Status == ack.StatusUnknown {
		return
	}
	select {
	case c.outcomes <- out:
	case <-c.done:
	}
}

// Send writes a copy of msg stamped with a command id when its type is
// tracked. A write failure resolves the command as dropped; msg is left
// untouched and may be sent again.
func (c *Client) Send(msg protocol.Message) (string, error) {
	msg = c.acks.Attach(msg)
	commandID := msg.Header().CommandID

	data, err := protocol.Encode(msg)
	if err != nil {
		c.emit(c.acks.HandleDrop(msg, err.Error()))
		return commandID, err
	}

	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		err = c.closedErr()
	} else if err = conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err == nil {
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	c.mu.Unlock()

	if err != nil {
		c.emit(c.acks.HandleDrop(msg, err.Error()))
		return commandID, err
	}
	return commandID, nil
}

func (c *Client) closedErr() error {
	select {
	case <-c.done:
		return ErrClosed
	default:
		return ErrDisconnected
	}
}

// Reconnect replaces the connection and re-authenticates. Commands still
// pending on the old connection are forgotten.
func (c *Client) Reconnect(ctx context.Context) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.mu.Lock()
	old := c.conn
	c.conn = nil
	c.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	c.acks.Reset()
	return c.connect(ctx)
}

// Frames delivers snapshots, deltas and relays. It must be drained.
func (c *Client) Frames() <-chan Frame {
	return c.frames
}

// Outcomes delivers one value per resolved command.
func (c *Client) Outcomes() <-chan ack.Outcome {
	return c.outcomes
}

func (c *Client) Pending() int {
	return c.acks.Pending()
}

func (c *Client) Identity() protocol.AuthOKFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()
		if conn == nil {
			return
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = conn.Close()
	})
	return err
}
