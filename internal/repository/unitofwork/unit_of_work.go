package unitofwork

import (
	"context"

	"github.com/best200-lab/juristmindchat/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	MessageFeedbackRepository() contract.MessageFeedbackRepository
	CaseNoteRepository() contract.CaseNoteRepository
	JobPostRepository() contract.JobPostRepository
	SubscriptionRepository() contract.SubscriptionRepository
	BillingRepository() contract.BillingRepository
}
