package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/best200-lab/juristmindchat/pkg/progress"
)

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SendChatRequest struct {
	ChatSessionId *uuid.UUID `json:"chat_session_id,omitempty"`
	Question      string     `json:"question" validate:"required,min=1,max=4000"`
}

type ChatTurnDTO struct {
	Id        uuid.UUID       `json:"id"`
	Sender    string          `json:"sender"`
	Content   string          `json:"content"`
	Steps     []progress.Step `json:"process_steps,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID    `json:"chat_session_id"`
	ChatSessionTitle string       `json:"title"`
	Sent             *ChatTurnDTO `json:"sent"`
	Reply            *ChatTurnDTO `json:"reply"`
	NearLimit        bool         `json:"near_limit,omitempty"`
}

type RegenerateRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID       `json:"id"`
	Sender    string          `json:"sender"`
	Content   string          `json:"content"`
	Steps     []progress.Step `json:"process_steps,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type MessageFeedbackRequest struct {
	MessageId uuid.UUID `json:"message_id" validate:"required"`
	Helpful   bool      `json:"helpful"`
}

// LimitExceededError carries usage details for 429 responses.
type LimitExceededError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *LimitExceededError) Error() string {
	return "daily chat limit exceeded"
}

type LimitExceededData struct {
	Limit            int       `json:"limit"`
	Used             int       `json:"used"`
	ResetAfter       time.Time `json:"reset_after"`
	ShowModalPricing bool      `json:"show_modal_pricing"`
}
