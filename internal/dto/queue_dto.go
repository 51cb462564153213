package dto

import "github.com/google/uuid"

// TurnCompletedMessage is the in-process queue payload published after a
// question/answer exchange finishes.
type TurnCompletedMessage struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	MessageId     uuid.UUID `json:"message_id"`
	UserId        uuid.UUID `json:"user_id"`
}
