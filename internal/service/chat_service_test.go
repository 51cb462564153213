package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/best200-lab/juristmindchat/internal/constant"
	"github.com/best200-lab/juristmindchat/internal/dto"
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/repository/memory"
	"github.com/best200-lab/juristmindchat/pkg/usage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	service  IChatService
	uow      *fakeUow
	streamer *fakeStreamer
	hub      *fakeHub
	live     *memory.LiveSessionRepository
	userId   uuid.UUID
}

func newChatFixture(t *testing.T, streamer *fakeStreamer) *chatFixture {
	t.Helper()

	uow := newFakeUow()
	userId := uuid.New()
	unlimited := -1
	uow.users.users = append(uow.users.users, &entity.User{
		Id:                      userId,
		Email:                   "advocate@example.com",
		FullName:                "Test Advocate",
		ChatDailyUsageLastReset: time.Now(),
		ChatDailyLimitOverride:  &unlimited,
	})

	hub := &fakeHub{}
	live := memory.NewLiveSessionRepository()

	svc := NewChatService(
		&fakeUowFactory{uow: uow},
		streamer,
		usage.NewTracker(noopLogger{}),
		live,
		hub,
		nil,
		nil,
		noopLogger{},
		nil,
		10*time.Millisecond,
	)

	return &chatFixture{
		service:  svc,
		uow:      uow,
		streamer: streamer,
		hub:      hub,
		live:     live,
		userId:   userId,
	}
}

func TestSendChatCreatesSessionAndStreamsAnswer(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("Under the civil code, ", "termination requires notice.")})

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Question: "What are the grounds for contract termination under civil law?",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "Under the civil code, termination requires notice.", resp.Reply.Content)
	assert.Equal(t, "What are the grounds for contract termination under civil la…", resp.ChatSessionTitle)
	require.NotNil(t, resp.Sent)
	assert.Equal(t, string(entity.MessageSenderUser), resp.Sent.Sender)

	// Both turns persisted.
	assert.Len(t, f.uow.messages.bySender(entity.MessageSenderUser), 1)
	assert.Len(t, f.uow.messages.bySender(entity.MessageSenderAI), 1)

	// A legal question carries the research panel.
	assert.NotEmpty(t, resp.Reply.Steps)

	// Content updates and the final insert went out over the stream channel.
	assert.NotEmpty(t, f.hub.eventsOfType("content"))
	assert.Len(t, f.hub.eventsOfType("message_inserted"), 1)
}

func TestSendChatGreetingSkipsProgressPanel(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("Hello! How can I help?")})

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Question: "hi",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Reply.Steps)
}

func TestSendChatSubstitutesApologyOnTransportFailure(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{err: fmt.Errorf("connection refused")})

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Question: "What is the statute of limitations for fraud claims?",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatApologyMessage, resp.Reply.Content)

	// The apology is a real persisted turn, not an ephemeral toast.
	aiMessages := f.uow.messages.bySender(entity.MessageSenderAI)
	require.Len(t, aiMessages, 1)
	assert.Equal(t, constant.ChatApologyMessage, aiMessages[0].Content)
}

func TestSendChatEmptyStreamYieldsPlaceholder(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: "data: [DONE]\n\n"})

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Question: "Summarize the new labor regulation for me please",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.ChatEmptyAnswerMessage, resp.Reply.Content)
}

func TestSendChatEnforcesDailyLimit(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("answer")})
	one := 1
	f.uow.users.users[0].ChatDailyLimitOverride = &one
	f.uow.users.users[0].ChatDailyUsage = 1

	_, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Question: "One more question about inheritance law procedures",
	})

	var limitErr *dto.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, limitErr.Limit)

	// Blocked turns leave no trace in the transcript.
	assert.Empty(t, f.uow.messages.bySender(entity.MessageSenderUser))
}

func TestSendChatPersistsAnswerWhenUserInsertFails(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("The answer.")})
	f.uow.messages.createErrFor = entity.MessageSenderUser

	resp, err := f.service.SendChat(context.Background(), f.userId, &dto.SendChatRequest{
		Question: "Does a verbal agreement bind the parties here?",
	})
	require.NoError(t, err)

	assert.Equal(t, "The answer.", resp.Reply.Content)
	assert.Empty(t, f.uow.messages.bySender(entity.MessageSenderUser))
	assert.Len(t, f.uow.messages.bySender(entity.MessageSenderAI), 1)
}

func TestRegenerateReplacesAssistantTurn(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("A better answer.")})

	sessionId := uuid.New()
	f.uow.sessions.sessions = append(f.uow.sessions.sessions, &entity.ChatSession{
		Id:     sessionId,
		UserId: f.userId,
		Title:  "Contract question",
	})
	f.uow.messages.messages = append(f.uow.messages.messages,
		&entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Sender:        entity.MessageSenderUser,
			Content:       "Is this clause enforceable under consumer protection law?",
			CreatedAt:     time.Now().Add(-2 * time.Minute),
		},
		&entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			Sender:        entity.MessageSenderAI,
			Content:       "A first answer.",
			CreatedAt:     time.Now().Add(-time.Minute),
		},
	)

	resp, err := f.service.Regenerate(context.Background(), f.userId, &dto.RegenerateRequest{
		ChatSessionId: sessionId,
	})
	require.NoError(t, err)

	// The question is not re-sent, only the new answer comes back.
	assert.Nil(t, resp.Sent)
	assert.Equal(t, "A better answer.", resp.Reply.Content)

	// The stale answer is gone, the replacement is live.
	aiMessages := f.uow.messages.bySender(entity.MessageSenderAI)
	require.Len(t, aiMessages, 1)
	assert.Equal(t, "A better answer.", aiMessages[0].Content)

	// The same question went back out to the backend.
	require.Len(t, f.streamer.calls, 1)
	assert.Equal(t, "Is this clause enforceable under consumer protection law?", f.streamer.calls[0].Question)
}

func TestRegenerateWithoutUserTurnFails(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("answer")})

	sessionId := uuid.New()
	f.uow.sessions.sessions = append(f.uow.sessions.sessions, &entity.ChatSession{
		Id:     sessionId,
		UserId: f.userId,
	})

	_, err := f.service.Regenerate(context.Background(), f.userId, &dto.RegenerateRequest{
		ChatSessionId: sessionId,
	})
	assert.Error(t, err)

	// A regeneration that never ran must not burn a daily credit.
	assert.Equal(t, 0, f.uow.users.users[0].ChatDailyUsage)
}

func TestDeleteSessionRemovesMessagesTransactionally(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("answer")})

	sessionId := uuid.New()
	f.uow.sessions.sessions = append(f.uow.sessions.sessions, &entity.ChatSession{
		Id:     sessionId,
		UserId: f.userId,
	})
	f.uow.messages.messages = append(f.uow.messages.messages, &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Sender:        entity.MessageSenderUser,
	})

	err := f.service.DeleteSession(context.Background(), f.userId, sessionId)
	require.NoError(t, err)

	assert.Empty(t, f.uow.sessions.sessions)
	assert.Empty(t, f.uow.messages.messages)
	assert.Equal(t, 1, f.uow.commitCount)
}

func TestSubmitFeedbackRejectsUserTurns(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("answer")})

	sessionId := uuid.New()
	messageId := uuid.New()
	f.uow.sessions.sessions = append(f.uow.sessions.sessions, &entity.ChatSession{
		Id:     sessionId,
		UserId: f.userId,
	})
	f.uow.messages.messages = append(f.uow.messages.messages, &entity.ChatMessage{
		Id:            messageId,
		ChatSessionId: sessionId,
		Sender:        entity.MessageSenderUser,
	})

	err := f.service.SubmitFeedback(context.Background(), f.userId, &dto.MessageFeedbackRequest{
		MessageId: messageId,
		Helpful:   true,
	})
	assert.Error(t, err)
	assert.Empty(t, f.uow.feedback.entries)
}

func TestSubmitFeedbackStoresVerdict(t *testing.T) {
	f := newChatFixture(t, &fakeStreamer{body: sseBody("answer")})

	sessionId := uuid.New()
	messageId := uuid.New()
	f.uow.sessions.sessions = append(f.uow.sessions.sessions, &entity.ChatSession{
		Id:     sessionId,
		UserId: f.userId,
	})
	f.uow.messages.messages = append(f.uow.messages.messages, &entity.ChatMessage{
		Id:            messageId,
		ChatSessionId: sessionId,
		Sender:        entity.MessageSenderAI,
		Content:       "answer",
	})

	err := f.service.SubmitFeedback(context.Background(), f.userId, &dto.MessageFeedbackRequest{
		MessageId: messageId,
		Helpful:   false,
	})
	require.NoError(t, err)

	require.Len(t, f.uow.feedback.entries, 1)
	assert.Equal(t, messageId, f.uow.feedback.entries[0].ChatMessageId)
	assert.False(t, f.uow.feedback.entries[0].Helpful)
}
