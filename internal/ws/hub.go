// README:
// Live tracking fan-out. The hub keeps the set of connected watchers
// (client apps showing the map) and pushes driver positions and
// booking status changes to all of them. Slow consumers are dropped
// rather than allowed to stall the loop.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"washride/internal/modules/booking"
	"washride/internal/modules/location"
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	log        *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		log:        log,
		clients:    make(map[*Client]struct{}),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("ws client connected", "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("ws client disconnected", "clients", n)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Buffer full; drop the client instead of blocking.
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NotifyPosition implements location.Notifier.
func (h *Hub) NotifyPosition(p location.Position) {
	h.push("position", p)
}

// PublishStatusChange implements booking.EventPublisher so watchers
// see lifecycle changes on the same stream as positions.
func (h *Hub) PublishStatusChange(ctx context.Context, e booking.StatusChange) error {
	h.push("status_change", e)
	return nil
}

func (h *Hub) push(kind string, data any) {
	payload, err := json.Marshal(map[string]any{"type": kind, "data": data})
	if err != nil {
		h.log.Warn("ws marshal", "kind", kind, "err", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// Broadcast queue full; the stream is best-effort.
	}
}
