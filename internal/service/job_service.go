package service

import (
	"context"
	"fmt"
	"time"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IJobService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJobPostRequest) (*dto.JobPostResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateJobPostRequest) (*dto.JobPostResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, jobId uuid.UUID) error
	GetOne(ctx context.Context, jobId uuid.UUID) (*dto.JobPostResponse, error)
	List(ctx context.Context, req *dto.ListJobPostsRequest) ([]*dto.JobPostResponse, error)
}

type jobService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewJobService(uowFactory unitofwork.RepositoryFactory) IJobService {
	return &jobService{
		uowFactory: uowFactory,
	}
}

// canPost checks the posting user's plan grants job board access.
func (s *jobService) canPost(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("job board requires an active subscription")
	}
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: subs[0].PlanId})
	if err != nil {
		return err
	}
	if plan == nil || !plan.JobBoardEnabled {
		return fmt.Errorf("job board is not included in your plan")
	}
	return nil
}

func (s *jobService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateJobPostRequest) (*dto.JobPostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.canPost(ctx, uow, userId); err != nil {
		return nil, err
	}

	job := entity.JobPost{
		Id:           uuid.New(),
		UserId:       userId,
		Title:        req.Title,
		Firm:         req.Firm,
		Location:     req.Location,
		Description:  req.Description,
		SalaryRange:  req.SalaryRange,
		ContactEmail: req.ContactEmail,
		Status:       entity.JobStatusOpen,
		CreatedAt:    time.Now(),
	}
	if err := uow.JobPostRepository().Create(ctx, &job); err != nil {
		return nil, err
	}
	return toJobPostResponse(&job), nil
}

func (s *jobService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateJobPostRequest) (*dto.JobPostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobPostRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job post not found")
	}

	job.Title = req.Title
	job.Firm = req.Firm
	job.Location = req.Location
	job.Description = req.Description
	job.SalaryRange = req.SalaryRange
	job.ContactEmail = req.ContactEmail
	job.Status = entity.JobStatus(req.Status)
	now := time.Now()
	job.UpdatedAt = &now

	if err := uow.JobPostRepository().Update(ctx, job); err != nil {
		return nil, err
	}
	return toJobPostResponse(job), nil
}

func (s *jobService) Delete(ctx context.Context, userId uuid.UUID, jobId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobPostRepository().FindOne(ctx,
		specification.ByID{ID: jobId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job post not found")
	}
	return uow.JobPostRepository().Delete(ctx, jobId)
}

func (s *jobService) GetOne(ctx context.Context, jobId uuid.UUID) (*dto.JobPostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobPostRepository().FindOne(ctx, specification.ByID{ID: jobId})
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job post not found")
	}
	return toJobPostResponse(job), nil
}

func (s *jobService) List(ctx context.Context, req *dto.ListJobPostsRequest) ([]*dto.JobPostResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if req.Location != "" {
		specs = append(specs, specification.Filter("location", req.Location))
	}
	status := req.Status
	if status == "" {
		status = string(entity.JobStatusOpen)
	}
	specs = append(specs, specification.Filter("status", status))

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	specs = append(specs, specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize})

	jobs, err := uow.JobPostRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.JobPostResponse, 0, len(jobs))
	for _, j := range jobs {
		res = append(res, toJobPostResponse(j))
	}
	return res, nil
}

func toJobPostResponse(j *entity.JobPost) *dto.JobPostResponse {
	return &dto.JobPostResponse{
		Id:           j.Id,
		Title:        j.Title,
		Firm:         j.Firm,
		Location:     j.Location,
		Description:  j.Description,
		SalaryRange:  j.SalaryRange,
		ContactEmail: j.ContactEmail,
		Status:       string(j.Status),
		CreatedAt:    j.CreatedAt,
	}
}
