package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/contract"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	"github.com/best200-lab/juristmindchat/internal/websocket"
	"github.com/best200-lab/juristmindchat/pkg/legalai"

	"github.com/google/uuid"
)

// noopLogger satisfies logger.ILogger for tests.
type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// fakeStreamer returns a canned stream body or a transport error.
type fakeStreamer struct {
	body string
	err  error

	mu    sync.Mutex
	calls []legalai.AskRequest
}

func (f *fakeStreamer) Ask(ctx context.Context, req legalai.AskRequest) (io.ReadCloser, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

// sseBody builds an event-stream body out of content fragments.
func sseBody(fragments ...string) string {
	var b strings.Builder
	for _, frag := range fragments {
		b.WriteString(`data: {"content": "` + frag + `"}` + "\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

// fakeHub records stream events instead of delivering them.
type fakeHub struct {
	mu     sync.Mutex
	events []websocket.StreamEvent
}

func (f *fakeHub) SendToSession(sessionID uuid.UUID, event websocket.StreamEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeHub) eventsOfType(kind string) []websocket.StreamEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []websocket.StreamEvent
	for _, e := range f.events {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

// fakeUow is an in-memory unit of work shared across the factory's handouts,
// so state written in one service call is visible to the next.
type fakeUow struct {
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	feedback *fakeFeedbackRepo
	subs     *fakeSubscriptionRepo

	beginCount    int
	commitCount   int
	rollbackCount int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:    &fakeUserRepo{},
		sessions: &fakeSessionRepo{},
		messages: &fakeMessageRepo{},
		feedback: &fakeFeedbackRepo{},
		subs:     &fakeSubscriptionRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { u.beginCount++; return nil }
func (u *fakeUow) Commit() error                   { u.commitCount++; return nil }
func (u *fakeUow) Rollback() error                 { u.rollbackCount++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository              { return u.users }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return u.messages }
func (u *fakeUow) MessageFeedbackRepository() contract.MessageFeedbackRepository {
	return u.feedback
}
func (u *fakeUow) CaseNoteRepository() contract.CaseNoteRepository { return &fakeCaseNoteRepo{} }
func (u *fakeUow) JobPostRepository() contract.JobPostRepository   { return &fakeJobPostRepo{} }
func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository { return u.subs }
func (u *fakeUow) BillingRepository() contract.BillingRepository   { return &fakeBillingRepo{} }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User

	updateErr error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.Id == user.Id {
			cp := *user
			r.users[i] = &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) == 0 {
		return nil, nil
	}
	cp := *r.users[0]
	return &cp, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.User(nil), r.users...), nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []*entity.ChatSession

	createErr error
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sessions {
		if s.Id == session.Id {
			cp := *session
			r.sessions[i] = &cp
		}
	}
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.Id != id {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) == 0 {
		return nil, nil
	}
	cp := *r.sessions[0]
	return &cp, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ChatSession(nil), r.sessions...), nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sessions)), nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.ChatMessage

	createErrFor entity.MessageSender
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.createErrFor != "" && message.Sender == r.createErrFor {
		return fmt.Errorf("insert failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.Id == message.Id {
			cp := *message
			r.messages[i] = &cp
		}
	}
	return nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return nil, nil
	}
	cp := *r.messages[len(r.messages)-1]
	return &cp, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if !m.IsDeleted {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) bySender(sender entity.MessageSender) []*entity.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if m.Sender == sender && !m.IsDeleted {
			out = append(out, m)
		}
	}
	return out
}

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	entries []*entity.MessageFeedback
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *entity.MessageFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *feedback
	r.entries = append(r.entries, &cp)
	return nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*entity.UserSubscription
	plan *entity.SubscriptionPlan
}

func (r *fakeSubscriptionRepo) CreateSubscription(ctx context.Context, sub *entity.UserSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sub
	r.subs = append(r.subs, &cp)
	return nil
}

func (r *fakeSubscriptionRepo) UpdateSubscription(ctx context.Context, sub *entity.UserSubscription) error {
	return nil
}

func (r *fakeSubscriptionRepo) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.subs) == 0 {
		return nil, nil
	}
	cp := *r.subs[0]
	return &cp, nil
}

func (r *fakeSubscriptionRepo) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.UserSubscription(nil), r.subs...), nil
}

func (r *fakeSubscriptionRepo) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plan == nil {
		return nil, nil
	}
	cp := *r.plan
	return &cp, nil
}

func (r *fakeSubscriptionRepo) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plan == nil {
		return nil, nil
	}
	cp := *r.plan
	return []*entity.SubscriptionPlan{&cp}, nil
}

type fakeCaseNoteRepo struct{}

func (fakeCaseNoteRepo) Create(ctx context.Context, note *entity.CaseNote) error { return nil }
func (fakeCaseNoteRepo) Update(ctx context.Context, note *entity.CaseNote) error { return nil }
func (fakeCaseNoteRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (fakeCaseNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CaseNote, error) {
	return nil, nil
}
func (fakeCaseNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseNote, error) {
	return nil, nil
}
func (fakeCaseNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeJobPostRepo struct{}

func (fakeJobPostRepo) Create(ctx context.Context, job *entity.JobPost) error { return nil }
func (fakeJobPostRepo) Update(ctx context.Context, job *entity.JobPost) error { return nil }
func (fakeJobPostRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }
func (fakeJobPostRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.JobPost, error) {
	return nil, nil
}
func (fakeJobPostRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.JobPost, error) {
	return nil, nil
}

type fakeBillingRepo struct{}

func (fakeBillingRepo) Create(ctx context.Context, addr *entity.BillingAddress) error { return nil }
