package controller

import (
	"encoding/json"

	"goodvibes-bot/internal/pkg/logger"
	"goodvibes-bot/internal/service"
	"goodvibes-bot/pkg/telegram"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Webhook(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type webhookController struct {
	publisher service.IPublisherService
	logger    logger.ILogger
}

func NewWebhookController(publisher service.IPublisherService, log logger.ILogger) IWebhookController {
	return &webhookController{
		publisher: publisher,
		logger:    log,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhook", c.Webhook)
	r.Get("/health", c.Health)
}

// Webhook accepts one Bot API update per call. It is fire-and-acknowledge:
// once the update is on the bus (or found undecodable) the transport gets
// "OK" no matter what processing later does, so Telegram never re-delivers.
func (c *webhookController) Webhook(ctx *fiber.Ctx) error {
	correlationID := uuid.NewString()
	body := ctx.Body()

	var upd telegram.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		c.logger.Warn("webhook", "undecodable update payload", map[string]interface{}{
			"correlation_id": correlationID,
			"error":          err.Error(),
		})
		return ctx.SendString("OK")
	}

	if err := c.publisher.Publish(ctx.Context(), body, correlationID); err != nil {
		c.logger.Error("webhook", "publishing update failed", map[string]interface{}{
			"correlation_id": correlationID,
			"update_id":      upd.UpdateID,
			"error":          err.Error(),
		})
		return ctx.SendString("OK")
	}

	c.logger.Debug("webhook", "update accepted", map[string]interface{}{
		"correlation_id": correlationID,
		"update_id":      upd.UpdateID,
	})
	return ctx.SendString("OK")
}

// Health is the static liveness endpoint the keep-alive pinger targets.
func (c *webhookController) Health(ctx *fiber.Ctx) error {
	return ctx.SendString("OK")
}
