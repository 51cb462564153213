package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
)

type CaseNoteRepository interface {
	Create(ctx context.Context, note *entity.CaseNote) error
	Update(ctx context.Context, note *entity.CaseNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseNote, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseNote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
