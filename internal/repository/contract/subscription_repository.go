package contract

import (
	"context"

	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
)

type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub *entity.UserSubscription) error
	UpdateSubscription(ctx context.Context, sub *entity.UserSubscription) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error)
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)
}

type BillingRepository interface {
	Create(ctx context.Context, addr *entity.BillingAddress) error
}
