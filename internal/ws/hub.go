package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/services/room"
)

// Hub is the connection table: it maps connection ids to live clients and
// delivers outbound events. It implements room.Sender, so rooms address
// connections by id and never hold transport handles.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
}

// Ensure the hub satisfies the coordinator's send contract
var _ room.Sender = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With(slog.String("component", "ws")),
		clients: make(map[model.ConnectionID]*Client),
	}
}

// Register adds a client to the table
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected",
		slog.String("connection", string(client.id)),
		slog.Int("total_clients", count))
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[client.id]; ok && cur == client {
		delete(h.clients, client.id)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client disconnected",
		slog.String("connection", string(client.id)),
		slog.Int("total_clients", count))
}

// Send delivers an event to a single connection. It never blocks: a full
// client buffer drops the message, and an unknown connection id (a client
// that disconnected mid-command) is a no-op.
func (h *Hub) Send(id model.ConnectionID, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("event marshal failed",
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	// The lock is held across the send: Unregister closes the channel
	// under the write lock, so releasing before the send would let the
	// close land in between and panic. The send never blocks, so the
	// lock is held only briefly.
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[id]
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("event dropped - client buffer full",
			slog.String("connection", string(id)),
			slog.String("event", string(event.Type)))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
