package main

import (
	"context"
	"log"

	"goodvibes-bot/internal/bootstrap"
	"goodvibes-bot/internal/config"
	"goodvibes-bot/internal/server"
	"goodvibes-bot/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Start Background Services
	ctx := context.Background()
	if err := container.UpdateConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Unable to start update consumer: %v", err)
	}
	go container.PingerService.Start(ctx)

	// 4. Register the webhook when a public URL is configured
	if cfg.Telegram.WebhookURL != "" {
		if err := container.Bot.SetWebhook(ctx, cfg.Telegram.WebhookURL); err != nil {
			log.Printf("Warning: webhook registration failed: %v", err)
		}
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
