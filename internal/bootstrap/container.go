package bootstrap

import (
	"time"

	"goodvibes-bot/internal/config"
	"goodvibes-bot/internal/controller"
	"goodvibes-bot/internal/pkg/logger"
	"goodvibes-bot/internal/repository/implementation"
	"goodvibes-bot/internal/repository/memory"
	"goodvibes-bot/internal/service"
	"goodvibes-bot/pkg/sheets"
	"goodvibes-bot/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController

	// Background Services (Exposed for main.go to run)
	UpdateConsumerService service.IUpdateConsumerService
	PingerService         service.IPingerService

	// Transport client, exposed for webhook registration at startup
	Bot *telegram.Client

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. External clients
	bot := telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.BaseURL)
	sheetsClient := sheets.NewClient(
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.SheetName,
		cfg.Sheets.APIKey,
		cfg.Sheets.BaseURL,
	)

	// 4. Repositories
	recordRepo := implementation.NewRecordRepository(sheetsClient)
	sessionRepo := memory.NewSessionRepository()

	// 5. Services
	rankingsService := service.NewRankingsService()
	conversationService := service.NewConversationService(
		sessionRepo,
		recordRepo,
		rankingsService,
		bot,
		cfg.Bot.Password,
		sysLogger,
	)
	publisherService := service.NewPublisherService(cfg.Bot.UpdatesTopic, pubSub)
	consumerService := service.NewUpdateConsumerService(pubSub, cfg.Bot.UpdatesTopic, conversationService, sysLogger)
	pingerService := service.NewPingerService(
		cfg.App.PingURL,
		time.Duration(cfg.App.PingIntervalMinutes)*time.Minute,
		sysLogger,
	)

	// 6. Controllers
	webhookController := controller.NewWebhookController(publisherService, sysLogger)

	return &Container{
		WebhookController:     webhookController,
		UpdateConsumerService: consumerService,
		PingerService:         pingerService,
		Bot:                   bot,
		Logger:                sysLogger,
	}
}
