// internal/ws/hub.go
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event types pushed to connected dashboards.
const (
	EventConnected          = "connected"
	EventAssignmentComplete = "assignment_complete"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type CompletionEvent struct {
	AgentID     string    `json:"agentId"`
	Username    string    `json:"username"`
	CompletedAt time.Time `json:"completedAt"`
}

// Hub fans out dashboard events to connected clients, keyed by agent id.
// It implements the report service's CompletionNotifier.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	logger *zap.Logger
}

type broadcastMessage struct {
	// nil agentIDs means everyone.
	agentIDs []string
	event    *Event
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMessage, 256),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// NotifyCompletion pushes an assignment-complete event to every connected
// client. Fire-and-forget: a slow or absent dashboard never blocks the
// triggering request.
func (h *Hub) NotifyCompletion(agentID, username string, completedAt time.Time) {
	msg := &broadcastMessage{
		event: &Event{
			Type: EventAssignmentComplete,
			Data: CompletionEvent{AgentID: agentID, Username: username, CompletedAt: completedAt},
		},
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("dropping completion event, broadcast queue full",
			zap.String("agent_id", agentID))
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.agentID] == nil {
		h.clients[client.agentID] = make(map[*Client]bool)
	}
	h.clients[client.agentID][client] = true

	h.logger.Info("websocket client connected",
		zap.String("agent_id", client.agentID),
		zap.Int("total", h.totalClients()),
	)

	client.Send(&Event{Type: EventConnected, Data: map[string]string{"agentId": client.agentID}})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.agentID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()
			if len(clients) == 0 {
				delete(h.clients, client.agentID)
			}
			h.logger.Info("websocket client disconnected",
				zap.String("agent_id", client.agentID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) deliver(msg *broadcastMessage) {
	raw, err := json.Marshal(msg.event)
	if err != nil {
		h.logger.Error("failed to marshal websocket event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.agentIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.sendRaw(raw)
			}
		}
		return
	}
	for _, id := range msg.agentIDs {
		for client := range h.clients[id] {
			client.sendRaw(raw)
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
