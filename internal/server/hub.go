package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event is a push notification sent to websocket clients.
type Event struct {
	Type string `json:"type"`
	Date string `json:"date,omitempty"`
}

const (
	EventSaved      = "saved"
	EventThresholds = "thresholds"
	EventInstall    = "install"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Event
}

// Hub fans events out to connected websocket clients. A client that cannot
// keep up is dropped rather than blocking the broadcaster.
type Hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[string]*client
	wg      sync.WaitGroup
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{log: logger.Named("hub"), clients: map[string]*client{}}
}

// Broadcast queues e for every client.
func (h *Hub) Broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- e:
		default:
			h.log.Warn("client too slow, dropping", zap.String("client", id))
			h.removeLocked(id)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events until the client goes
// away or ctx ends.
func (h *Hub) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Debug("client connected", zap.String("client", c.id))

	h.wg.Add(1)
	go h.readPump(c)
	h.writePump(ctx, c)
}

// writePump owns all writes to the connection.
func (h *Hub) writePump(ctx context.Context, c *client) {
	defer func() {
		h.remove(c.id)
		c.conn.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			return
		case e, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and notices disconnects.
func (h *Hub) readPump(c *client) {
	defer h.wg.Done()
	defer h.remove(c.id)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	h.removeLocked(id)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
	h.log.Debug("client disconnected", zap.String("client", id))
}

// Wait blocks until every client's reader has exited.
func (h *Hub) Wait() {
	h.wg.Wait()
}
