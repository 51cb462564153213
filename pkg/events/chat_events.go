package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeChatMessageCreated = "CHAT_MESSAGE_CREATED"
	TypeChatSessionCreated = "CHAT_SESSION_CREATED"
	TypeSubscriptionPaid   = "SUBSCRIPTION_PAID"
)

// NewChatMessageCreated is published after an assistant or user turn has
// been persisted, so other instances can fan it out to connected sockets.
func NewChatMessageCreated(sessionID, messageID, userID uuid.UUID, sender string) Event {
	return BaseEvent{
		Type: TypeChatMessageCreated,
		Data: map[string]interface{}{
			"chat_session_id": sessionID.String(),
			"message_id":      messageID.String(),
			"user_id":         userID.String(),
			"sender":          sender,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatSessionCreated(sessionID, userID uuid.UUID, title string) Event {
	return BaseEvent{
		Type: TypeChatSessionCreated,
		Data: map[string]interface{}{
			"chat_session_id": sessionID.String(),
			"user_id":         userID.String(),
			"title":           title,
		},
		OccurredAt: time.Now(),
	}
}

func NewSubscriptionPaid(subscriptionID, userID uuid.UUID) Event {
	return BaseEvent{
		Type: TypeSubscriptionPaid,
		Data: map[string]interface{}{
			"subscription_id": subscriptionID.String(),
			"user_id":         userID.String(),
		},
		OccurredAt: time.Now(),
	}
}
