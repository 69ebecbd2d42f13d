package websocket

import (
	"sync"

	"github.com/dialdesk/backend/internal/metrics"
	"github.com/rs/zerolog"
)

// tenantMessage is a broadcast scoped to one tenant's dashboards
type tenantMessage struct {
	tenantID string
	data     []byte
}

// Hub maintains the set of active dashboard clients and broadcasts
// queue snapshots to them. Every client is bound to a tenant; a message
// for one tenant never reaches another tenant's connections.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages scoped per tenant
	broadcast chan tenantMessage

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	// Logger
	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan tenantMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.RecordWebSocketConnect()
			h.logger.Info().
				Str("client_id", client.id).
				Str("tenant_id", client.tenantID).
				Int("total_clients", h.ClientCount()).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.RecordWebSocketDisconnect()
				h.logger.Info().
					Str("client_id", client.id).
					Str("tenant_id", client.tenantID).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// BroadcastToTenant sends a message to every client of one tenant
func (h *Hub) BroadcastToTenant(tenantID string, message []byte) {
	h.broadcast <- tenantMessage{tenantID: tenantID, data: message}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Tenants lists the tenants with at least one connected client,
// the snapshot loop's work list.
func (h *Hub) Tenants() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]bool)
	tenants := make([]string, 0)
	for client := range h.clients {
		if !seen[client.tenantID] {
			seen[client.tenantID] = true
			tenants = append(tenants, client.tenantID)
		}
	}
	return tenants
}

// deliver fans a tenant-scoped message out to that tenant's clients.
// Takes the write lock: evicting a slow client mutates the clients map.
func (h *Hub) deliver(message tenantMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.tenantID != message.tenantID {
			continue
		}
		select {
		case client.send <- message.data:
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}
