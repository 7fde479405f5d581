package realtime

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"sawit-ops/backend/internal/model"
)

// Event is a realtime message fanned out to subscribed clients.
//
// Type follows the "{topic}:{action}" convention, e.g. "dashboard:refresh",
// "satpam:data_update", "gate_check:created". OwnerID, when set, narrows
// delivery to the one client whose user owns the underlying record, on top
// of the channel's role filtering.
type Event struct {
	Type      string      `json:"type"`
	Channel   Channel     `json:"channel"`
	CompanyID string      `json:"company_id"`
	OwnerID   string      `json:"owner_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	SentAt    time.Time   `json:"sent_at"`
}

// Hub is the broadcast registry. Clients register at websocket upgrade and
// are auto-subscribed to their role's channels; Publish fans an event out
// to every matching client without blocking on slow consumers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a connected client to the fan-out set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("realtime client connected",
		zap.String("user_id", c.UserID),
		zap.String("role", string(c.Role)),
		zap.Int("channels", len(c.channels)))
}

// Unregister removes a client. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if present {
		c.closeSend()
		h.logger.Info("realtime client disconnected", zap.String("user_id", c.UserID))
	}
}

// Publish fans an event out to every client subscribed to its channel in
// the same company. Delivery is best-effort: a client whose send buffer is
// full misses the event rather than stalling the publisher.
func (h *Hub) Publish(evt Event) {
	if evt.SentAt.IsZero() {
		evt.SentAt = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients {
		if !c.wants(evt) {
			continue
		}
		select {
		case c.send <- evt:
			delivered++
		default:
			h.logger.Warn("realtime client send buffer full, dropping event",
				zap.String("user_id", c.UserID),
				zap.String("event_type", evt.Type))
		}
	}
	h.logger.Debug("realtime event published",
		zap.String("event_type", evt.Type),
		zap.String("channel", string(evt.Channel)),
		zap.Int("delivered", delivered))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client, used at shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.closeSend()
		delete(h.clients, c)
	}
}

// wants reports whether a client should receive the event: same company,
// subscribed channel, and, when the event is owner-scoped, matching user.
func (c *Client) wants(evt Event) bool {
	if evt.CompanyID != "" && evt.CompanyID != c.CompanyID {
		return false
	}
	if evt.OwnerID != "" && evt.OwnerID != c.UserID {
		return false
	}
	_, subscribed := c.channels[evt.Channel]
	return subscribed
}

// subscriptionSet builds the channel lookup for a role.
func subscriptionSet(role model.Role) map[Channel]struct{} {
	set := make(map[Channel]struct{})
	for _, ch := range ChannelsForRole(role) {
		set[ch] = struct{}{}
	}
	return set
}
