package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobPost struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title        string         `gorm:"type:varchar(255);not null"`
	Firm         string         `gorm:"type:varchar(255)"`
	Location     string         `gorm:"type:varchar(255)"`
	Description  string         `gorm:"type:text"`
	SalaryRange  string         `gorm:"type:varchar(100)"`
	ContactEmail string         `gorm:"type:varchar(255)"`
	Status       string         `gorm:"type:varchar(50);not null;default:'open'"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (JobPost) TableName() string {
	return "job_posts"
}
