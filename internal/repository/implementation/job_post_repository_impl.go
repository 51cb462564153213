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

type JobPostRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JobPostMapper
}

func NewJobPostRepository(db *gorm.DB) contract.JobPostRepository {
	return &JobPostRepositoryImpl{
		db:     db,
		mapper: mapper.NewJobPostMapper(),
	}
}

func (r *JobPostRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *JobPostRepositoryImpl) Create(ctx context.Context, job *entity.JobPost) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *JobPostRepositoryImpl) Update(ctx context.Context, job *entity.JobPost) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *JobPostRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.JobPost{}, id).Error
}

func (r *JobPostRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JobPost, error) {
	var m model.JobPost
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *JobPostRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JobPost, error) {
	var models []*model.JobPost
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.JobPost, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
