package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// statusHub broadcasts published channel status to WebSocket clients.
type statusHub struct {
	server   *Server
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newStatusHub(server *Server) *statusHub {
	h := &statusHub{
		server:  server,
		clients: make(map[*websocket.Conn]bool),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// notify wakes the broadcast loop after a status publish. It never
// blocks the caller.
func (h *statusHub) notify() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *statusHub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *statusHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.server.logger.Debugw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Send the current state before registering, so this write cannot
	// race a broadcast.
	if err := conn.WriteJSON(h.server.latestStatus()); err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast pushes the latest status to every client when woken.
func (h *statusHub) broadcast() {
	for {
		select {
		case <-h.done:
			return
		case <-h.wake:
		}

		payload := h.server.latestStatus()

		h.mu.RLock()
		var stale []*websocket.Conn
		for conn := range h.clients {
			if err := conn.WriteJSON(payload); err != nil {
				stale = append(stale, conn)
			}
		}
		h.mu.RUnlock()

		if len(stale) > 0 {
			h.mu.Lock()
			for _, conn := range stale {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
		}
	}
}
