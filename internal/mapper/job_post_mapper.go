package mapper

import (
	"time"

	"gorm.io/gorm"

	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/model"
)

type JobPostMapper struct{}

func NewJobPostMapper() *JobPostMapper {
	return &JobPostMapper{}
}

func (m *JobPostMapper) ToEntity(j *model.JobPost) *entity.JobPost {
	if j == nil {
		return nil
	}

	var deletedAt *time.Time
	if j.DeletedAt.Valid {
		t := j.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}

	return &entity.JobPost{
		Id:           j.Id,
		UserId:       j.UserId,
		Title:        j.Title,
		Firm:         j.Firm,
		Location:     j.Location,
		Description:  j.Description,
		SalaryRange:  j.SalaryRange,
		ContactEmail: j.ContactEmail,
		Status:       entity.JobStatus(j.Status),
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    j.DeletedAt.Valid,
	}
}

func (m *JobPostMapper) ToModel(j *entity.JobPost) *model.JobPost {
	if j == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if j.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *j.DeletedAt, Valid: true}
	} else if j.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if j.UpdatedAt != nil {
		updatedAt = *j.UpdatedAt
	}

	return &model.JobPost{
		Id:           j.Id,
		UserId:       j.UserId,
		Title:        j.Title,
		Firm:         j.Firm,
		Location:     j.Location,
		Description:  j.Description,
		SalaryRange:  j.SalaryRange,
		ContactEmail: j.ContactEmail,
		Status:       string(j.Status),
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}
