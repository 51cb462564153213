package implementation

import (
	"context"
	"errors"

	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/mapper"
	"github.com/best200-lab/juristmindchat/internal/model"
	"github.com/best200-lab/juristmindchat/internal/repository/contract"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CaseNoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseNoteMapper
}

func NewCaseNoteRepository(db *gorm.DB) contract.CaseNoteRepository {
	return &CaseNoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseNoteMapper(),
	}
}

func (r *CaseNoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CaseNoteRepositoryImpl) Create(ctx context.Context, note *entity.CaseNote) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *CaseNoteRepositoryImpl) Update(ctx context.Context, note *entity.CaseNote) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *CaseNoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CaseNote{}, id).Error
}

func (r *CaseNoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseNote, error) {
	var m model.CaseNote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CaseNoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseNote, error) {
	var models []*model.CaseNote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CaseNote, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *CaseNoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CaseNote{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
