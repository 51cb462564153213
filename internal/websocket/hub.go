package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/best200-lab/juristmindchat/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "chat_stream_events"

// StreamEvent is what goes over the wire to a chat client: progressive
// content, step snapshots, or a dedup notice for an externally inserted row.
type StreamEvent struct {
	Type          string      `json:"type"` // "content" | "steps" | "message_inserted" | "session_created"
	ChatSessionID string      `json:"chat_session_id"`
	Data          interface{} `json:"data"`
}

type Hub struct {
	// Connected clients per session, multi-device per user.
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis for cross-instance fan-out.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"user_id":    client.UserID,
				"session_id": client.SessionID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToSession delivers an event to every socket watching a session, and
// relays it through Redis so other instances can do the same.
func (h *Hub) SendToSession(sessionID uuid.UUID, event StreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal stream event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_session_id": sessionID.String(),
			"message":           json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) deliverLocal(sessionID uuid.UUID, data []byte) {
	// Sends happen under the read lock: closing Send requires the write
	// lock (unregister branch), so a closed channel can never be sent to.
	h.mu.RLock()
	var stalled []*Client
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
				"user_id": client.UserID,
			})
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	// The unregister branch owns removal and the channel close.
	for _, client := range stalled {
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to one cluster channel; each message names
	// its target session and is delivered only where that session has local
	// sockets.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
			continue
		}

		sid, err := uuid.Parse(payload.TargetSessionID)
		if err != nil {
			continue
		}
		h.deliverLocal(sid, payload.Message)
	}
}
