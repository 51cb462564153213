package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateJobPostRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200"`
	Firm         string `json:"firm" validate:"required,min=1,max=200"`
	Location     string `json:"location" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	SalaryRange  string `json:"salary_range,omitempty" validate:"max=100"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
}

type UpdateJobPostRequest struct {
	Id           uuid.UUID `json:"id" validate:"required"`
	Title        string    `json:"title" validate:"required,min=1,max=200"`
	Firm         string    `json:"firm" validate:"required,min=1,max=200"`
	Location     string    `json:"location" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required"`
	SalaryRange  string    `json:"salary_range,omitempty" validate:"max=100"`
	ContactEmail string    `json:"contact_email" validate:"required,email"`
	Status       string    `json:"status" validate:"required,oneof=open closed"`
}

type JobPostResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Firm         string    `json:"firm"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	SalaryRange  string    `json:"salary_range,omitempty"`
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListJobPostsRequest struct {
	Location string `query:"location"`
	Status   string `query:"status" validate:"omitempty,oneof=open closed"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}
