package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

type JobPost struct {
	Id           uuid.UUID
	UserId       uuid.UUID // posting user
	Title        string
	Firm         string
	Location     string
	Description  string
	SalaryRange  string
	ContactEmail string
	Status       JobStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
