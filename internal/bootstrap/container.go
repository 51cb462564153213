package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/best200-lab/juristmindchat/internal/config"
	"github.com/best200-lab/juristmindchat/internal/controller"
	"github.com/best200-lab/juristmindchat/internal/handler"
	"github.com/best200-lab/juristmindchat/internal/pkg/logger"
	"github.com/best200-lab/juristmindchat/internal/pkg/mailer"
	"github.com/best200-lab/juristmindchat/internal/repository/memory"
	"github.com/best200-lab/juristmindchat/internal/repository/unitofwork"
	"github.com/best200-lab/juristmindchat/internal/service"
	"github.com/best200-lab/juristmindchat/internal/websocket"
	"github.com/best200-lab/juristmindchat/pkg/legalai"
	"github.com/best200-lab/juristmindchat/pkg/usage"

	pktNats "github.com/best200-lab/juristmindchat/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	CaseNoteController controller.ICaseNoteController
	JobController      controller.IJobController
	PlanController     controller.IPlanController
	PaymentController  controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	RealtimeService service.IRealtimeService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// Legal answer backend
	answerClient := legalai.NewClient(cfg.LegalAI.BaseURL)
	log.Printf("[INFO] Using Legal AI backend: %s", cfg.LegalAI.BaseURL)

	// In-memory live transcripts
	liveSessions := memory.NewLiveSessionRepository()

	usageTracker := usage.NewTracker(sysLogger)

	// Keep the interface nil when NATS is down so services can skip publishing
	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	// 3. Services
	chatService := service.NewChatService(
		uowFactory,
		answerClient,
		usageTracker,
		liveSessions,
		wsHub,
		eventPublisher,
		pubSub,
		sysLogger,
		cfg.LegalAI.StepThresholds,
		time.Duration(cfg.LegalAI.AdvanceIntervalMs)*time.Millisecond,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		service.TurnCompletedTopic,
		uowFactory,
		sysLogger,
	)

	realtimeService := service.NewRealtimeService(
		natsSub,
		uowFactory,
		liveSessions,
		wsHub,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, cfg.App.JWTSecret)
	caseNoteService := service.NewCaseNoteService(uowFactory)
	jobService := service.NewJobService(uowFactory)
	planService := service.NewPlanService(uowFactory, usageTracker)
	paymentService := service.NewPaymentService(uowFactory, eventPublisher, emailService, sysLogger)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(chatService),
		CaseNoteController: controller.NewCaseNoteController(caseNoteService),
		JobController:      controller.NewJobController(jobService),
		PlanController:     controller.NewPlanController(planService),
		PaymentController:  controller.NewPaymentController(paymentService),

		ConsumerService: consumerService,
		RealtimeService: realtimeService,

		StreamHandler: handler.NewStreamHandler(wsHub, uowFactory, sysLogger, cfg.App.JWTSecret),
		WebSocketHub:  wsHub,
	}
}
