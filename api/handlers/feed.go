package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/models"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// viewer is one websocket connection. Writes to it are serialized by mu.
type viewer struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

func (v *viewer) write(frame models.Frame) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteJSON(frame)
}

// Hub pushes console frames to every connected viewer
type Hub struct {
	clients map[string]*viewer
	mutex   sync.Mutex
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*viewer)}
}

// ServeWS upgrades the request and keeps the viewer registered until it
// disconnects
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "error", err)
		return
	}

	v := &viewer{id: uuid.New().String(), conn: conn}
	h.mutex.Lock()
	h.clients[v.id] = v
	h.mutex.Unlock()
	zap.S().Debugw("viewer connected", "id", v.id)

	defer func() {
		h.remove(v.id)
		zap.S().Debugw("viewer disconnected", "id", v.id)
	}()

	// viewers never send anything meaningful; reading only detects the close
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// Publish sends frame to all viewers, dropping the ones that fail. The hub
// lock is not held while writing, so one slow viewer does not block
// registration or other publishers' snapshots.
func (h *Hub) Publish(frame models.Frame) {
	for _, v := range h.snapshot() {
		if err := v.write(frame); err != nil {
			zap.S().Warnw("dropping viewer", "id", v.id, "error", err)
			h.remove(v.id)
		}
	}
}

func (h *Hub) snapshot() []*viewer {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	out := make([]*viewer, 0, len(h.clients))
	for _, v := range h.clients {
		out = append(out, v)
	}
	return out
}

// Count returns the number of connected viewers
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, v := range h.clients {
		v.conn.Close()
		delete(h.clients, id)
	}
}

func (h *Hub) remove(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if v, ok := h.clients[id]; ok {
		v.conn.Close()
		delete(h.clients, id)
	}
}
