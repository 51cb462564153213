package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

func (h *Hub) clientCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestStalledClientIsDroppedOnce(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	sessionID := uuid.New()
	client := &Client{
		Hub:       hub,
		SessionID: sessionID,
		UserID:    uuid.New(),
		// Unbuffered with no reader: every delivery stalls.
		Send: make(chan []byte),
	}

	hub.register <- client
	waitFor(t, func() bool { return hub.clientCount(sessionID) == 1 })

	hub.SendToSession(sessionID, StreamEvent{Type: "content", ChatSessionID: sessionID.String()})
	waitFor(t, func() bool { return hub.clientCount(sessionID) == 0 })

	// The dropped client's channel is closed exactly once.
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected Send to be closed, got a message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send was not closed")
	}

	// A second delivery and a late disconnect must both be no-ops, not a
	// second close of the same channel.
	hub.SendToSession(sessionID, StreamEvent{Type: "content", ChatSessionID: sessionID.String()})
	hub.unregister <- client

	// Run is still alive: a fresh client can register after the drop.
	hub.register <- &Client{Hub: hub, SessionID: sessionID, Send: make(chan []byte, 1)}
	waitFor(t, func() bool { return hub.clientCount(sessionID) == 1 })
}

func TestDeliverySkipsSessionsWithoutClients(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	// No registered clients: delivery must return without blocking.
	hub.SendToSession(uuid.New(), StreamEvent{Type: "steps"})
}

func TestHealthyClientReceivesInOrder(t *testing.T) {
	hub := NewHub(nil, quietLogger{})
	go hub.Run()

	sessionID := uuid.New()
	client := &Client{
		Hub:       hub,
		SessionID: sessionID,
		UserID:    uuid.New(),
		Send:      make(chan []byte, 4),
	}

	hub.register <- client
	waitFor(t, func() bool { return hub.clientCount(sessionID) == 1 })

	hub.SendToSession(sessionID, StreamEvent{Type: "content", ChatSessionID: sessionID.String()})
	hub.SendToSession(sessionID, StreamEvent{Type: "message_inserted", ChatSessionID: sessionID.String()})

	first := <-client.Send
	second := <-client.Send
	if len(first) == 0 || len(second) == 0 {
		t.Fatal("expected two deliveries")
	}
	if hub.clientCount(sessionID) != 1 {
		t.Error("healthy client was dropped")
	}
}
