package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/responder/responder/pkg/types"
	"github.com/responder/responder/server/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	eventQuestions = "questions"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event       string           `json:"event"`
	Data        []types.Question `json:"data"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Lister is the read side of the store the hub broadcasts from.
type Lister interface {
	ListQuestions() ([]types.Question, error)
}

// Hub manages WebSocket client connections.
type Hub struct {
	src      Lister
	interval time.Duration
	notify   chan struct{}

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that reads from src and broadcasts every interval.
func New(src Lister, interval time.Duration) *Hub {
	return &Hub{
		src:      src,
		interval: interval,
		notify:   make(chan struct{}, 1),
		clients:  make(map[*client]struct{}),
	}
}

// Notify requests a broadcast outside the regular tick. Calls made while one
// is already pending are coalesced. Never blocks.
func (h *Hub) Notify() {
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Run broadcasts on every tick and on every Notify. It blocks until ctx is
// cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.broadcast()
		case <-h.notify:
			h.broadcast()
		}
	}
}

// ServeHTTP upgrades the connection, sends the current collection right
// away and then relays broadcasts until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		slog.Debug("ws: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	if data, err := h.buildMessage(); err == nil {
		c.send <- data
	} else {
		slog.Warn("ws: initial message", "err", err)
	}
	h.register(c)
	defer h.unregister(c)

	go c.writePump()
	c.readPump()
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	h.drop(c)
	h.mu.Unlock()
}

// drop removes c and closes its send channel. Callers hold h.mu.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast() {
	data, err := h.buildMessage()
	if err != nil {
		slog.Warn("ws: broadcast skipped", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slog.Debug("ws: dropping slow client", "remote", c.conn.RemoteAddr().String())
			h.drop(c)
		}
	}
}

func (h *Hub) buildMessage() ([]byte, error) {
	qs, err := h.src.ListQuestions()
	if errors.Is(err, store.ErrNoData) {
		qs, err = []types.Question{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return json.Marshal(Message{
		Event:       eventQuestions,
		Data:        qs,
		GeneratedAt: time.Now().UTC(),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}

// writePump drains the send channel onto the connection and sends periodic
// pings. One goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes control frames (pong, close) and returns once the
// connection is gone.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
