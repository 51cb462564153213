package service

import (
	"context"
	"fmt"

	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/repository/memory"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	"github.com/best200-lab/juristmindchat/internal/websocket"
	"github.com/best200-lab/juristmindchat/pkg/chatstate"
	"github.com/best200-lab/juristmindchat/pkg/events"
	pktNats "github.com/best200-lab/juristmindchat/pkg/nats"

	"github.com/google/uuid"
)

type IRealtimeService interface {
	Start(durableName string) error
}

// realtimeService bridges the event bus into live sessions: messages
// persisted by other instances get merged into the local transcript (dedup
// by server id) and pushed to connected sockets.
type realtimeService struct {
	subscriber   *pktNats.Subscriber
	uowFactory   unitofwork.RepositoryFactory
	liveSessions *memory.LiveSessionRepository
	hub          StreamPublisher
	logger       logger.ILogger
}

func NewRealtimeService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	liveSessions *memory.LiveSessionRepository,
	hub StreamPublisher,
	log logger.ILogger,
) IRealtimeService {
	return &realtimeService{
		subscriber:   subscriber,
		uowFactory:   uowFactory,
		liveSessions: liveSessions,
		hub:          hub,
		logger:       log,
	}
}

func (s *realtimeService) Start(durableName string) error {
	if s.subscriber == nil {
		return fmt.Errorf("nats subscriber is not connected")
	}
	subject := "events." + events.TypeChatMessageCreated
	return s.subscriber.Subscribe(subject, durableName, s.handleMessageCreated)
}

func (s *realtimeService) handleMessageCreated(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	sessionID, err := parseUUIDField(payload, "chat_session_id")
	if err != nil {
		// Drop malformed events, retrying cannot fix them.
		s.logger.Warn("Realtime", "Malformed message event", map[string]interface{}{"error": err.Error()})
		return nil
	}
	messageID, err := parseUUIDField(payload, "message_id")
	if err != nil {
		s.logger.Warn("Realtime", "Malformed message event", map[string]interface{}{"error": err.Error()})
		return nil
	}

	// Only sessions with local sockets matter; everything else stays on
	// the bus for the instance that holds them.
	live, ok := s.liveSessions.Get(sessionID.String())
	if !ok {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: messageID})
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	turn := chatstate.Turn{
		ID:        msg.Id.String(),
		DBID:      msg.Id.String(),
		Content:   msg.Content,
		Sender:    chatstate.Sender(msg.Sender),
		Timestamp: msg.CreatedAt,
		Steps:     msg.Steps,
	}
	if !live.MergeInserted(turn) {
		// Already present locally, this instance produced it.
		return nil
	}

	if s.hub != nil {
		s.hub.SendToSession(sessionID, websocket.StreamEvent{
			Type:          "message_inserted",
			ChatSessionID: sessionID.String(),
			Data: dto.ChatTurnDTO{
				Id:        msg.Id,
				Sender:    string(entity.MessageSender(msg.Sender)),
				Content:   msg.Content,
				Steps:     msg.Steps,
				CreatedAt: msg.CreatedAt,
			},
		})
	}
	return nil
}

func parseUUIDField(payload map[string]interface{}, key string) (uuid.UUID, error) {
	raw, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing field %s", key)
	}
	return uuid.Parse(raw)
}
