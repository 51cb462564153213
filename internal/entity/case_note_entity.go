package entity

import (
	"time"

	"github.com/google/uuid"
)

type CaseNote struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Matter    string // case or matter reference this note belongs to
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
