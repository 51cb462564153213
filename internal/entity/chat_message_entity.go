package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/best200-lab/juristmindchat/pkg/progress"
)

type MessageSender string

const (
	MessageSenderUser MessageSender = "user"
	MessageSenderAI   MessageSender = "ai"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Content       string
	Sender        MessageSender
	// Final progress panel snapshot, nil for user turns and non-legal
	// assistant turns.
	Steps     []progress.Step
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// MessageFeedback is an insert-only helpful/unhelpful vote on one assistant
// turn.
type MessageFeedback struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	UserId        uuid.UUID
	Helpful       bool
	CreatedAt     time.Time
}
