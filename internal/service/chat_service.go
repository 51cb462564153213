package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/best200-lab/juristmindchat/internal/constant"
	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/repository/memory"
	"github.com/best200-lab/juristmindchat/internal/repository/specification"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	"github.com/best200-lab/juristmindchat/internal/websocket"
	"github.com/best200-lab/juristmindchat/pkg/chatstate"
	"github.com/best200-lab/juristmindchat/pkg/events"
	"github.com/best200-lab/juristmindchat/pkg/legalai"
	"github.com/best200-lab/juristmindchat/pkg/progress"
	"github.com/best200-lab/juristmindchat/pkg/usage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// AnswerStreamer is the remote ask endpoint as the chat service sees it.
type AnswerStreamer interface {
	Ask(ctx context.Context, req legalai.AskRequest) (io.ReadCloser, error)
}

// StreamPublisher fans stream events out to connected session sockets.
type StreamPublisher interface {
	SendToSession(sessionID uuid.UUID, event websocket.StreamEvent)
}

// EventPublisher puts domain events on the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	Regenerate(ctx context.Context, userId uuid.UUID, request *dto.RegenerateRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.MessageFeedbackRequest) error
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	streamer     AnswerStreamer
	usageTracker *usage.Tracker
	liveSessions *memory.LiveSessionRepository
	hub          StreamPublisher
	publisher    EventPublisher
	turnQueue    message.Publisher
	logger       logger.ILogger

	stepThresholds  []int
	advanceInterval time.Duration
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	streamer AnswerStreamer,
	usageTracker *usage.Tracker,
	liveSessions *memory.LiveSessionRepository,
	hub StreamPublisher,
	publisher EventPublisher,
	turnQueue message.Publisher,
	log logger.ILogger,
	stepThresholds []int,
	advanceInterval time.Duration,
) IChatService {
	if stepThresholds == nil {
		stepThresholds = progress.DefaultThresholds
	}
	if advanceInterval <= 0 {
		advanceInterval = legalai.DefaultAdvanceInterval
	}
	return &chatService{
		uowFactory:      uowFactory,
		streamer:        streamer,
		usageTracker:    usageTracker,
		liveSessions:    liveSessions,
		hub:             hub,
		publisher:       publisher,
		turnQueue:       turnQueue,
		logger:          log,
		stepThresholds:  stepThresholds,
		advanceInterval: advanceInterval,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.ChatSessionDefaultTitle,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	if cs.publisher != nil {
		if err := cs.publisher.Publish(ctx, events.NewChatSessionCreated(session.Id, userId, session.Title)); err != nil {
			cs.logger.Warn("ChatService", "Failed to publish session created event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.CreateSessionResponse{Id: session.Id, Title: session.Title}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	turns := make([]chatstate.Turn, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Sender:    string(msg.Sender),
			Content:   msg.Content,
			Steps:     msg.Steps,
			CreatedAt: msg.CreatedAt,
		})
		sender := chatstate.SenderUser
		if msg.Sender == entity.MessageSenderAI {
			sender = chatstate.SenderAI
		}
		turns = append(turns, chatstate.Turn{
			ID:        msg.Id.String(),
			DBID:      msg.Id.String(),
			Content:   msg.Content,
			Sender:    sender,
			Timestamp: msg.CreatedAt,
			Steps:     msg.Steps,
		})
	}

	// A history load resets the live transcript wholesale.
	cs.liveSessions.GetOrCreate(sessionId.String()).Replace(turns)

	return resp, nil
}

func (cs *chatService) verifySession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}
	return session, nil
}

// titleFromQuestion cuts a session title out of the first question.
func titleFromQuestion(question string) string {
	runes := []rune(question)
	if len(runes) <= constant.ChatSessionTitleMaxLen {
		return question
	}
	return string(runes[:constant.ChatSessionTitleMaxLen]) + "…"
}

func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	check, err := cs.usageTracker.CheckAndIncrement(ctx, uow, userId)
	if err != nil {
		var limitErr *dto.LimitExceededError
		if errors.As(err, &limitErr) {
			return nil, limitErr
		}
		return nil, err
	}

	// Lazily create the session on the first question.
	var session *entity.ChatSession
	firstQuestion := false
	if request.ChatSessionId == nil {
		session = &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     titleFromQuestion(request.Question),
			CreatedAt: time.Now(),
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		firstQuestion = true
	} else {
		session, err = cs.verifySession(ctx, uow, userId, *request.ChatSessionId)
		if err != nil {
			return nil, err
		}
	}

	return cs.runTurn(ctx, uow, session, userId, request.Question, firstQuestion, check.NearLimit)
}

// runTurn executes one question/answer exchange: persist the user turn,
// create the assistant placeholder, stream the answer, persist the result.
func (cs *chatService) runTurn(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, userId uuid.UUID, question string, firstQuestion, nearLimit bool) (*dto.SendChatResponse, error) {
	now := time.Now()
	live := cs.liveSessions.GetOrCreate(session.Id.String())

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Content:       question,
		Sender:        entity.MessageSenderUser,
		CreatedAt:     now,
	}

	userTurn := chatstate.Turn{
		ID:        userMessage.Id.String(),
		Content:   question,
		Sender:    chatstate.SenderUser,
		Timestamp: now,
	}
	live.Append(userTurn)

	// Persisting the user turn may fail without aborting the exchange; the
	// optimistic turn then simply has no server id.
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		cs.logger.Error("ChatService", "Failed to persist user message", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	} else {
		live.Confirm(userTurn.ID, userMessage.Id.String())
	}

	legal := legalai.IsLegalQuery(question)
	var tracker *progress.Tracker
	var placeholderSteps []progress.Step
	if legal {
		tracker = progress.NewTracker(progress.DefaultSteps())
		placeholderSteps = tracker.Snapshot()
	}

	assistantTurn := chatstate.Turn{
		ID:        uuid.New().String(),
		Sender:    chatstate.SenderAI,
		Timestamp: now,
		Steps:     placeholderSteps,
		Streaming: true,
	}
	live.Append(assistantTurn)

	runner := &legalai.Runner{
		Tracker:    tracker,
		Thresholds: cs.stepThresholds,
		Interval:   cs.advanceInterval,
		OnContent: func(full string) {
			live.SetContent(assistantTurn.ID, full)
			if cs.hub != nil {
				cs.hub.SendToSession(session.Id, websocket.StreamEvent{
					Type:          "content",
					ChatSessionID: session.Id.String(),
					Data:          map[string]string{"id": assistantTurn.ID, "content": full},
				})
			}
		},
		OnSteps: func(steps []progress.Step) {
			live.SetSteps(assistantTurn.ID, steps)
			if cs.hub != nil {
				cs.hub.SendToSession(session.Id, websocket.StreamEvent{
					Type:          "steps",
					ChatSessionID: session.Id.String(),
					Data:          map[string]interface{}{"id": assistantTurn.ID, "steps": steps},
				})
			}
		},
	}

	finalContent := cs.streamAnswer(ctx, runner, session, userId, question)

	live.SetContent(assistantTurn.ID, finalContent)
	live.SetStreaming(assistantTurn.ID, false)

	var finalSteps []progress.Step
	if tracker != nil {
		finalSteps = tracker.Snapshot()
		live.SetSteps(assistantTurn.ID, finalSteps)
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Content:       finalContent,
		Sender:        entity.MessageSenderAI,
		Steps:         finalSteps,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		cs.logger.Error("ChatService", "Failed to persist assistant message", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	} else {
		live.Confirm(assistantTurn.ID, assistantMessage.Id.String())
		if cs.publisher != nil {
			if err := cs.publisher.Publish(ctx, events.NewChatMessageCreated(session.Id, assistantMessage.Id, userId, string(entity.MessageSenderAI))); err != nil {
				cs.logger.Warn("ChatService", "Failed to publish message event", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if cs.turnQueue != nil {
		payload, _ := json.Marshal(dto.TurnCompletedMessage{
			ChatSessionId: session.Id,
			MessageId:     assistantMessage.Id,
			UserId:        userId,
		})
		if err := cs.turnQueue.Publish(TurnCompletedTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
			cs.logger.Warn("ChatService", "Failed to enqueue turn follow-up", map[string]interface{}{"error": err.Error()})
		}
	}

	if firstQuestion {
		session.Title = titleFromQuestion(question)
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			cs.logger.Warn("ChatService", "Failed to update session title", map[string]interface{}{"error": err.Error()})
		}
	}

	if cs.hub != nil {
		cs.hub.SendToSession(session.Id, websocket.StreamEvent{
			Type:          "message_inserted",
			ChatSessionID: session.Id.String(),
			Data: dto.ChatTurnDTO{
				Id:        assistantMessage.Id,
				Sender:    string(entity.MessageSenderAI),
				Content:   finalContent,
				Steps:     finalSteps,
				CreatedAt: assistantMessage.CreatedAt,
			},
		})
	}

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent: &dto.ChatTurnDTO{
			Id:        userMessage.Id,
			Sender:    string(entity.MessageSenderUser),
			Content:   question,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.ChatTurnDTO{
			Id:        assistantMessage.Id,
			Sender:    string(entity.MessageSenderAI),
			Content:   finalContent,
			Steps:     finalSteps,
			CreatedAt: assistantMessage.CreatedAt,
		},
		NearLimit: nearLimit,
	}, nil
}

// streamAnswer runs the remote stream and returns the user-facing content,
// substituting the apology on transport failure and the empty-answer notice
// when nothing comes back. Failures never propagate further than here.
func (cs *chatService) streamAnswer(ctx context.Context, runner *legalai.Runner, session *entity.ChatSession, userId uuid.UUID, question string) string {
	body, err := cs.streamer.Ask(ctx, legalai.AskRequest{
		Question: question,
		ChatID:   session.Id.String(),
		UserID:   userId.String(),
	})
	if err != nil {
		cs.logger.Error("ChatService", "Ask request failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		// The tracker never started a stream, error any running steps.
		if runner.Tracker != nil {
			runner.Tracker.Fail()
		}
		return constant.ChatApologyMessage
	}
	defer body.Close()

	content, err := runner.Run(ctx, body)
	if err != nil {
		cs.logger.Error("ChatService", "Stream failed mid-read", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return constant.ChatApologyMessage
	}
	if content == "" {
		return constant.ChatEmptyAnswerMessage
	}
	return content
}

// Regenerate drops the assistant turn after the latest user turn and answers
// that question again.
func (cs *chatService) Regenerate(ctx context.Context, userId uuid.UUID, request *dto.RegenerateRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.verifySession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	// Walk back to the latest user question; everything after it is the
	// answer being replaced.
	var lastUser *entity.ChatMessage
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Sender == entity.MessageSenderUser {
			lastUser = messages[i]
			break
		}
	}
	if lastUser == nil {
		return nil, fmt.Errorf("nothing to regenerate")
	}

	// Only a turn that will actually run counts against the daily limit.
	check, err := cs.usageTracker.CheckAndIncrement(ctx, uow, userId)
	if err != nil {
		var limitErr *dto.LimitExceededError
		if errors.As(err, &limitErr) {
			return nil, limitErr
		}
		return nil, err
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Id == lastUser.Id {
			break
		}
		if messages[i].Sender == entity.MessageSenderAI {
			messages[i].IsDeleted = true
			nowT := time.Now()
			messages[i].DeletedAt = &nowT
			if err := uow.ChatMessageRepository().Update(ctx, messages[i]); err != nil {
				cs.logger.Warn("ChatService", "Failed to delete stale assistant turn", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	live := cs.liveSessions.GetOrCreate(session.Id.String())
	live.DropAssistantAfterLatestUser()

	resp, err := cs.runTurn(ctx, uow, session, userId, lastUser.Content, false, check.NearLimit)
	if err != nil {
		return nil, err
	}
	// The question itself is not re-sent on regeneration.
	resp.Sent = nil
	return resp, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.liveSessions.Delete(sessionId.String())
	return nil
}

func (cs *chatService) SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.MessageFeedbackRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	message, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: request.MessageId})
	if err != nil {
		return err
	}
	if message == nil {
		return fmt.Errorf("message not found")
	}
	if message.Sender != entity.MessageSenderAI {
		return fmt.Errorf("feedback is only accepted on assistant turns")
	}

	if _, err := cs.verifySession(ctx, uow, userId, message.ChatSessionId); err != nil {
		return err
	}

	feedback := entity.MessageFeedback{
		Id:            uuid.New(),
		ChatMessageId: request.MessageId,
		UserId:        userId,
		Helpful:       request.Helpful,
		CreatedAt:     time.Now(),
	}
	return uow.MessageFeedbackRepository().Create(ctx, &feedback)
}
