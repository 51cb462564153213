package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
)

type JobPostRepository interface {
	Create(ctx context.Context, job *entity.JobPost) error
	Update(ctx context.Context, job *entity.JobPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JobPost, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JobPost, error)
}
