// Package ws carries room traffic over websockets. Every inbound frame,
// connect and disconnect is serialized through the Hub's loop.
package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prudhvinik1/tablesync/internal/dispatch"
	"github.com/rs/zerolog/log"
)

var ErrHubClosed = errors.New("hub closed")

type inboundFrame struct {
	conn *Conn
	data []byte
}

// Hub owns the dispatch loop. The router and all room state are only
// touched from Run.
type Hub struct {
	router     *dispatch.Router
	opts       Options
	upgrader   websocket.Upgrader
	conns      map[*Conn]struct{}
	inbound    chan inboundFrame
	register   chan *Conn
	unregister chan *Conn
	tasks      chan func()
	done       chan struct{}
}

func NewHub(router *dispatch.Router, opts Options) *Hub {
	opts = opts.withDefaults()
	return &Hub{
		router: router,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns:      make(map[*Conn]struct{}),
		inbound:    make(chan inboundFrame, 256),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		tasks:      make(chan func()),
		done:       make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	log.Info().Str("module", "ws.hub").Msg("dispatch loop started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.conns {
				h.drop(c)
			}
			log.Info().Str("module", "ws.hub").Msg("dispatch loop stopped")
			return nil

		case c := <-h.register:
			h.conns[c] = struct{}{}
			log.Debug().Str("module", "ws.hub").Str("session", c.session.ID).Int("connections", len(h.conns)).Msg("connection registered")

		case c := <-h.unregister:
			if _, ok := h.conns[c]; ok {
				h.drop(c)
				log.Debug().Str("module", "ws.hub").Str("session", c.session.ID).Int("connections", len(h.conns)).Msg("connection unregistered")
			}

		case in := <-h.inbound:
			if _, ok := h.conns[in.conn]; ok {
				h.router.Route(in.conn.session, in.data)
			}

		case task := <-h.tasks:
			task()
		}
	}
}

func (h *Hub) drop(c *Conn) {
	delete(h.conns, c)
	h.router.Disconnect(c.session)
	c.Close()
}

// Do runs fn on the dispatch loop and waits for it to finish.
func (h *Hub) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case h.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubClosed
	}
}

// ServeWS upgrades the request and starts the connection's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("module", "ws.hub").Msg("websocket upgrade failed")
		return
	}

	c := newConn(h, wsConn, uuid.NewString())
	select {
	case h.register <- c:
	case <-h.done:
		_ = wsConn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) submit(c *Conn, data []byte) bool {
	select {
	case h.inbound <- inboundFrame{conn: c, data: data}:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
