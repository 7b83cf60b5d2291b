package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"CurrentFM/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// IngestHub pushes ingest outcomes to connected websocket clients so the
// web UI can show uploads landing without polling.
type IngestHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewIngestHub creates an empty hub.
func NewIngestHub() *IngestHub {
	return &IngestHub{clients: make(map[*websocket.Conn]bool)}
}

// Broadcast sends v as JSON to every connected client. Clients whose
// writes fail are dropped.
func (h *IngestHub) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to marshal ingest event", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeWS upgrades the request and keeps the connection registered until
// the client goes away.
func (h *IngestHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Drain reads to notice disconnects; clients only listen.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.Debug("websocket read error", logger.ErrorField(err))
				}
				return
			}
		}
	}()
}
