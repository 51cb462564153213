package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCaseNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
	Matter  string `json:"matter,omitempty" validate:"max=200"`
}

type UpdateCaseNoteRequest struct {
	Id      uuid.UUID `json:"id" validate:"required"`
	Title   string    `json:"title" validate:"required,min=1,max=200"`
	Content string    `json:"content" validate:"required"`
	Matter  string    `json:"matter,omitempty" validate:"max=200"`
}

type CaseNoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Matter    string     `json:"matter,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
