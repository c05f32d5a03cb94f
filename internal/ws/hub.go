// Package ws carries the websocket transport: the fan-out hub, the
// per-connection pumps, and the session dispatcher that routes decoded
// messages into the game services.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coinpit/coinpit/internal/game"
)

// Hub manages all live websocket clients and fans events out to them.
// Delivery is best-effort: a client whose buffer is full has the frame
// dropped rather than stalling the broadcaster.
//
// Registration and targeted sends are synchronous under the hub's lock, so a
// client is addressable the moment Register returns; only broadcasts go
// through the Run loop.
type Hub struct {
	clients map[game.ConnID]*Client
	mu      sync.RWMutex
	logger  *slog.Logger

	broadcast chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:   make(map[game.ConnID]*Client),
		logger:    logger.With(slog.String("component", "ws")),
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

// Run starts the hub's broadcast loop.
func (h *Hub) Run() {
	h.logger.Info("ws hub started")
	for {
		select {
		case message := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for _, client := range h.clients {
				if client.Send(message) {
					sentCount++
				} else {
					droppedCount++
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("ws broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clients := make([]*Client, 0, len(h.clients))
			for id, client := range h.clients {
				clients = append(clients, client)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			for _, client := range clients {
				client.closeSend()
			}
			h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", len(clients)))
			return
		}
	}
}

// Register adds a client to the hub. The client is addressable by targeted
// sends as soon as this returns.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("conn", string(client.id)),
		slog.Int("total_clients", clientCount))
}

// Unregister removes a client from the hub and closes its send queue.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client.id]
	if known {
		delete(h.clients, client.id)
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	if !known {
		return
	}
	client.closeSend()
	h.logger.Info("ws client unregistered",
		slog.String("conn", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Broadcast delivers a pre-serialized frame to every connected client.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("ws broadcast dropped - hub buffer full")
	}
}

// BroadcastJSON serializes the event once and delivers it to all clients.
func (h *Hub) BroadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("ws broadcast marshal failed", slog.Any("error", err))
		return
	}
	h.Broadcast(data)
}

// SendJSON delivers an event to a single connection. It reports false when
// the connection is gone or its buffer is full; callers treat that as a
// non-fatal delivery failure.
func (h *Hub) SendJSON(id game.ConnID, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("ws send marshal failed", slog.Any("error", err))
		return false
	}

	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return client.Send(data)
}

// Kick delivers a final event to the connection and then closes it.
func (h *Hub) Kick(id game.ConnID, v any) {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if data, err := json.Marshal(v); err == nil {
		client.Send(data)
	}
	client.Shutdown()
	h.logger.Info("ws client kicked", slog.String("conn", string(id)))
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
