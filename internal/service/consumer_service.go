package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TurnCompletedTopic is the in-process queue topic for finished exchanges.
const TurnCompletedTopic = "chat_turn_completed"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService handles turn follow-up work off the request path: it
// bumps the session's activity timestamp so session lists sort correctly.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TurnCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: payload.ChatSessionId})
	if err != nil || session == nil {
		cs.logger.Warn("Consumer", "Session lookup failed", map[string]interface{}{
			"session_id": payload.ChatSessionId.String(),
		})
		msg.Ack()
		return
	}

	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		cs.logger.Error("Consumer", "Failed to touch session", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	msg.Ack()
}
