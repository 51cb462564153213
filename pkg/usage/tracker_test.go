package usage

import (
	"context"
	"testing"
	"time"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/contract"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullLogger struct{}

func (nullLogger) Debug(module, message string, details map[string]interface{}) {}
func (nullLogger) Info(module, message string, details map[string]interface{})  {}
func (nullLogger) Warn(module, message string, details map[string]interface{})  {}
func (nullLogger) Error(module, message string, details map[string]interface{}) {}
func (nullLogger) Sync() error                                                  { return nil }

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error {
	cp := *user
	r.user = &cp
	return nil
}
func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *stubUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if r.user == nil {
		return nil, nil
	}
	cp := *r.user
	return &cp, nil
}
func (r *stubUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

type stubSubscriptionRepo struct {
	sub  *entity.UserSubscription
	plan *entity.SubscriptionPlan
}

func (r *stubSubscriptionRepo) CreateSubscription(ctx context.Context, sub *entity.UserSubscription) error {
	return nil
}
func (r *stubSubscriptionRepo) UpdateSubscription(ctx context.Context, sub *entity.UserSubscription) error {
	return nil
}
func (r *stubSubscriptionRepo) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	return r.sub, nil
}
func (r *stubSubscriptionRepo) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	if r.sub == nil {
		return nil, nil
	}
	return []*entity.UserSubscription{r.sub}, nil
}
func (r *stubSubscriptionRepo) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	return r.plan, nil
}
func (r *stubSubscriptionRepo) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	if r.plan == nil {
		return nil, nil
	}
	return []*entity.SubscriptionPlan{r.plan}, nil
}

type stubUow struct {
	users *stubUserRepo
	subs  *stubSubscriptionRepo
}

func (u *stubUow) Begin(ctx context.Context) error { return nil }
func (u *stubUow) Commit() error                   { return nil }
func (u *stubUow) Rollback() error                 { return nil }

func (u *stubUow) UserRepository() contract.UserRepository               { return u.users }
func (u *stubUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *stubUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }
func (u *stubUow) MessageFeedbackRepository() contract.MessageFeedbackRepository {
	return nil
}
func (u *stubUow) CaseNoteRepository() contract.CaseNoteRepository         { return nil }
func (u *stubUow) JobPostRepository() contract.JobPostRepository           { return nil }
func (u *stubUow) SubscriptionRepository() contract.SubscriptionRepository { return u.subs }
func (u *stubUow) BillingRepository() contract.BillingRepository           { return nil }

func newStubUow(user *entity.User) *stubUow {
	return &stubUow{
		users: &stubUserRepo{user: user},
		subs:  &stubSubscriptionRepo{},
	}
}

func TestCheckAndIncrementCountsAgainstOverride(t *testing.T) {
	limit := 3
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsageLastReset: time.Now(),
		ChatDailyLimitOverride:  &limit,
	}
	uow := newStubUow(user)
	tracker := NewTracker(nullLogger{})

	for i := 1; i <= 3; i++ {
		res, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
		require.NoError(t, err)
		assert.Equal(t, i, res.Used)
	}

	_, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
	var limitErr *dto.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 3, limitErr.Used)
	assert.Equal(t, 3, limitErr.Limit)
}

func TestCheckAndIncrementResetsAfterMidnight(t *testing.T) {
	limit := 2
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsage:          2,
		ChatDailyUsageLastReset: time.Now().Add(-48 * time.Hour),
		ChatDailyLimitOverride:  &limit,
	}
	uow := newStubUow(user)
	tracker := NewTracker(nullLogger{})

	res, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Used)
}

func TestNoPlanMeansChatDisabled(t *testing.T) {
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsageLastReset: time.Now(),
	}
	uow := newStubUow(user)
	tracker := NewTracker(nullLogger{})

	_, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
	var limitErr *dto.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 0, limitErr.Limit)
}

func TestPlanLimitAppliesWithoutOverride(t *testing.T) {
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsageLastReset: time.Now(),
	}
	uow := newStubUow(user)
	uow.subs.sub = &entity.UserSubscription{
		Id:     uuid.New(),
		UserId: user.Id,
		PlanId: uuid.New(),
		Status: entity.SubscriptionStatusActive,
	}
	uow.subs.plan = &entity.SubscriptionPlan{ChatDailyLimit: 10}
	tracker := NewTracker(nullLogger{})

	res, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Limit)
	assert.False(t, res.NearLimit)
}

func TestNearLimitWarnsAtFourFifths(t *testing.T) {
	limit := 5
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsage:          3,
		ChatDailyUsageLastReset: time.Now(),
		ChatDailyLimitOverride:  &limit,
	}
	uow := newStubUow(user)
	tracker := NewTracker(nullLogger{})

	res, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
	require.NoError(t, err)
	assert.True(t, res.NearLimit)
}

func TestUnlimitedStillReportsUsage(t *testing.T) {
	unlimited := -1
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsage:          40,
		ChatDailyUsageLastReset: time.Now(),
		ChatDailyLimitOverride:  &unlimited,
	}
	uow := newStubUow(user)
	tracker := NewTracker(nullLogger{})

	res, err := tracker.CheckAndIncrement(context.Background(), uow, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 41, res.Used)
	assert.Equal(t, -1, res.Limit)
	assert.False(t, res.NearLimit)
}

func TestStatusDoesNotIncrement(t *testing.T) {
	limit := 5
	user := &entity.User{
		Id:                      uuid.New(),
		ChatDailyUsage:          2,
		ChatDailyUsageLastReset: time.Now(),
		ChatDailyLimitOverride:  &limit,
	}
	uow := newStubUow(user)
	tracker := NewTracker(nullLogger{})

	res, err := tracker.Status(context.Background(), uow, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Used)
	assert.Equal(t, 2, uow.users.user.ChatDailyUsage)
}
