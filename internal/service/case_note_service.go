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

type ICaseNoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCaseNoteRequest) (*dto.CaseNoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateCaseNoteRequest) (*dto.CaseNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error
	GetOne(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.CaseNoteResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.CaseNoteResponse, error)
}

type caseNoteService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCaseNoteService(uowFactory unitofwork.RepositoryFactory) ICaseNoteService {
	return &caseNoteService{
		uowFactory: uowFactory,
	}
}

// noteLimit returns the user's case note ceiling: -1 unlimited, 0 when no
// active plan grants notes.
func (s *caseNoteService) noteLimit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (int, error) {
	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err != nil {
		return 0, err
	}
	if len(subs) == 0 {
		return 0, nil
	}
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: subs[0].PlanId})
	if err != nil {
		return 0, err
	}
	if plan == nil {
		return 0, nil
	}
	return plan.MaxCaseNotes, nil
}

func (s *caseNoteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCaseNoteRequest) (*dto.CaseNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit, err := s.noteLimit(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if limit != -1 {
		count, err := uow.CaseNoteRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return nil, err
		}
		if int(count) >= limit {
			return nil, fmt.Errorf("case note limit reached")
		}
	}

	note := entity.CaseNote{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Content:   req.Content,
		Matter:    req.Matter,
		CreatedAt: time.Now(),
	}
	if err := uow.CaseNoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}
	return toCaseNoteResponse(&note), nil
}

func (s *caseNoteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateCaseNoteRequest) (*dto.CaseNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.CaseNoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("case note not found")
	}

	note.Title = req.Title
	note.Content = req.Content
	note.Matter = req.Matter
	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.CaseNoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	return toCaseNoteResponse(note), nil
}

func (s *caseNoteService) Delete(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.CaseNoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return fmt.Errorf("case note not found")
	}
	return uow.CaseNoteRepository().Delete(ctx, noteId)
}

func (s *caseNoteService) GetOne(ctx context.Context, userId uuid.UUID, noteId uuid.UUID) (*dto.CaseNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.CaseNoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fmt.Errorf("case note not found")
	}
	return toCaseNoteResponse(note), nil
}

func (s *caseNoteService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.CaseNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.CaseNoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CaseNoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, toCaseNoteResponse(n))
	}
	return res, nil
}

func toCaseNoteResponse(n *entity.CaseNote) *dto.CaseNoteResponse {
	return &dto.CaseNoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Matter:    n.Matter,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
