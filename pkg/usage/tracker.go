package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// NearLimitFraction: above this share of the daily limit the caller gets a
// non-blocking warning.
const NearLimitFraction = 0.8

// CheckResult is what a successful check-and-increment returns.
type CheckResult struct {
	Used      int
	Limit     int // -1 unlimited, 0 disabled
	NearLimit bool
	ResetsAt  time.Time
}

// Tracker enforces per-user daily chat limits.
type Tracker struct {
	logger logger.ILogger
}

func NewTracker(logger logger.ILogger) *Tracker {
	return &Tracker{
		logger: logger,
	}
}

// startOfDay truncates to local midnight, the reset boundary.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// resolveChatLimit returns the effective daily limit for a user: the admin
// override when set, otherwise the active plan's limit, otherwise 0.
func (t *Tracker) resolveChatLimit(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) (int, error) {
	if user.ChatDailyLimitOverride != nil {
		return *user.ChatDailyLimitOverride, nil
	}

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: user.Id},
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
	return plan.ChatDailyLimit, nil
}

// CheckAndIncrement verifies a user can ask one more question today and, if
// so, records the question. The daily counter resets lazily on the first
// call after midnight. Returns *dto.LimitExceededError when the limit is
// spent.
func (t *Tracker) CheckAndIncrement(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*CheckResult, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	now := time.Now()
	today := startOfDay(now)
	if user.ChatDailyUsageLastReset.Before(today) {
		user.ChatDailyUsage = 0
		user.ChatDailyUsageLastReset = now
	}

	limit, err := t.resolveChatLimit(ctx, uow, user)
	if err != nil {
		return nil, err
	}

	resetsAt := today.Add(24 * time.Hour)

	switch {
	case limit == -1:
		// Unlimited, still count for reporting.
	case limit <= 0 || user.ChatDailyUsage >= limit:
		t.logger.Info("usage", "chat limit exhausted", map[string]interface{}{
			"user_id": userId.String(),
			"used":    user.ChatDailyUsage,
			"limit":   limit,
		})
		return nil, &dto.LimitExceededError{
			Limit:      limit,
			Used:       user.ChatDailyUsage,
			ResetAfter: resetsAt,
		}
	}

	user.ChatDailyUsage++
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	nearLimit := false
	if limit > 0 {
		nearLimit = float64(user.ChatDailyUsage) >= NearLimitFraction*float64(limit)
	}

	return &CheckResult{
		Used:      user.ChatDailyUsage,
		Limit:     limit,
		NearLimit: nearLimit,
		ResetsAt:  resetsAt,
	}, nil
}

// Status reports current usage without incrementing.
func (t *Tracker) Status(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*CheckResult, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	now := time.Now()
	today := startOfDay(now)
	used := user.ChatDailyUsage
	if user.ChatDailyUsageLastReset.Before(today) {
		used = 0
	}

	limit, err := t.resolveChatLimit(ctx, uow, user)
	if err != nil {
		return nil, err
	}

	nearLimit := false
	if limit > 0 {
		nearLimit = float64(used) >= NearLimitFraction*float64(limit)
	}

	return &CheckResult{
		Used:      used,
		Limit:     limit,
		NearLimit: nearLimit,
		ResetsAt:  today.Add(24 * time.Hour),
	}, nil
}
