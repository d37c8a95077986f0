package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prudhvinik1/tablesync/internal/dispatch"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/room"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultPingInterval = 30 * time.Second
	DefaultPongWait     = 60 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultSendBuffer   = 256
	DefaultReadLimit    = 1 << 20
)

type Options struct {
	ReadLimit         int64
	MessagesPerSecond float64
	Burst             int
	PingInterval      time.Duration
	PongWait          time.Duration
	WriteTimeout      time.Duration
	SendBuffer        int
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = DefaultReadLimit
	}
	if o.MessagesPerSecond <= 0 {
		o.MessagesPerSecond = 60
	}
	if o.Burst <= 0 {
		o.Burst = 120
	}
	if o.PingInterval <= 0 {
		o.PingInterval = DefaultPingInterval
	}
	if o.PongWait <= o.PingInterval {
		o.PongWait = 2 * o.PingInterval
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = DefaultSendBuffer
	}
	return o
}

// Conn is one websocket client. It implements dispatch.Peer; Send and
// SendSnapshot are called from the dispatch loop only.
type Conn struct {
	hub     *Hub
	ws      *websocket.Conn
	session *dispatch.Session
	assets  *dispatch.AssetTracker
	limiter *rate.Limiter
	send    chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(h *Hub, wsConn *websocket.Conn, id string) *Conn {
	c := &Conn{
		hub:     h,
		ws:      wsConn,
		assets:  dispatch.NewAssetTracker(),
		limiter: rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.Burst),
		send:    make(chan []byte, h.opts.SendBuffer),
		closed:  make(chan struct{}),
	}
	c.session = dispatch.NewSession(id, c)
	return c
}

// Send encodes frame immediately and queues it. A full queue means the
// client cannot keep up; it is disconnected.
func (c *Conn) Send(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Error().Err(err).Str("module", "ws.conn").Str("session", c.session.ID).Msg("failed to encode frame")
		return
	}
	c.enqueue(data)
}

func (c *Conn) SendSnapshot(snap *room.Snapshot, resync bool) {
	c.Send(c.assets.Frame(snap, resync))
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

func (c *Conn) enqueue(data []byte) {
	select {
	case <-c.closed:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("module", "ws.conn").Str("session", c.session.ID).Msg("send buffer full, closing connection")
		c.Close()
	}
}

func (c *Conn) readPump() {
	defer func() {
		c.hub.leave(c)
		c.Close()
	}()

	c.ws.SetReadLimit(c.hub.opts.ReadLimit)
	if err := c.ws.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait)); err != nil {
		log.Debug().Err(err).Str("module", "ws.conn").Msg("failed to set read deadline")
		return
	}
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("module", "ws.conn").Str("session", c.session.ID).Msg("websocket read error")
			}
			return
		}
		if !c.limiter.Allow() {
			c.refuse(data)
			continue
		}
		if !c.hub.submit(c, data) {
			return
		}
	}
}

// refuse drops a frame over the rate limit. Tracked commands are nacked so
// the sender does not wait on them. It runs on the read goroutine and must
// not touch the session beyond its immutable id.
func (c *Conn) refuse(data []byte) {
	env, err := protocol.PeekEnvelope(data)
	if err != nil || env.CommandID == "" || !protocol.IsTracked(env.Type) {
		log.Warn().Str("module", "ws.conn").Str("session", c.session.ID).Msg("rate limit exceeded, dropping frame")
		return
	}
	log.Warn().Str("module", "ws.conn").Str("session", c.session.ID).Str("command_id", env.CommandID).Str("type", string(env.Type)).Msg("rate limit exceeded, nacking command")
	c.Send(protocol.NewNack(env.CommandID, dispatch.ReasonRateLimited))
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(c.hub.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.write(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.closed:
			// Flush what is already queued, then say goodbye.
			for len(c.send) > 0 {
				if err := c.write(websocket.TextMessage, <-c.send); err != nil {
					return
				}
			}
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Conn) write(messageType int, data []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.hub.opts.WriteTimeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, data)
}
