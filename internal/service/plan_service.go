package service

import (
	"context"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	"github.com/best200-lab/juristmindchat/pkg/usage"

	"github.com/google/uuid"
)

type IPlanService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error)
}

type planService struct {
	uowFactory   unitofwork.RepositoryFactory
	usageTracker *usage.Tracker
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory, usageTracker *usage.Tracker) IPlanService {
	return &planService{
		uowFactory:   uowFactory,
		usageTracker: usageTracker,
	}
}

func (s *planService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, &dto.PlanResponse{
			Id:            p.Id,
			Name:          p.Name,
			Slug:          p.Slug,
			Tagline:       p.Tagline,
			Price:         p.Price,
			BillingPeriod: string(p.BillingPeriod),
			IsMostPopular: p.IsMostPopular,
			Limits: dto.PlanLimitsDTO{
				ChatDaily:       p.ChatDailyLimit,
				MaxCaseNotes:    p.MaxCaseNotes,
				JobBoardEnabled: p.JobBoardEnabled,
			},
		})
	}
	return res, nil
}

func (s *planService) GetUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := s.usageTracker.Status(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	planInfo := dto.PlanInfo{Name: "Free Plan", Slug: "free"}
	maxNotes := 0
	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", string(entity.SubscriptionStatusActive)),
	)
	if err == nil && len(subs) > 0 {
		if plan, perr := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: subs[0].PlanId}); perr == nil && plan != nil {
			planInfo = dto.PlanInfo{Id: plan.Id, Name: plan.Name, Slug: plan.Slug}
			maxNotes = plan.MaxCaseNotes
		}
	}

	noteCount, err := uow.CaseNoteRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	resetsAt := chat.ResetsAt
	return &dto.UsageStatusResponse{
		Plan: planInfo,
		Chat: dto.UsageLimit{
			Used:     chat.Used,
			Limit:    chat.Limit,
			CanUse:   chat.Limit == -1 || chat.Used < chat.Limit,
			ResetsAt: &resetsAt,
		},
		CaseNotes: dto.UsageLimit{
			Used:   int(noteCount),
			Limit:  maxNotes,
			CanUse: maxNotes == -1 || int(noteCount) < maxNotes,
		},
		NearLimit:        chat.NearLimit,
		UpgradeAvailable: planInfo.Slug == "free",
	}, nil
}
