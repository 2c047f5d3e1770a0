package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/medeasy-backend/internal/models"
	"github.com/Ananth-NQI/medeasy-backend/internal/services"
	"github.com/Ananth-NQI/medeasy-backend/internal/utils"
)

// WebhookHandler serves Dialogflow fulfillment requests
type WebhookHandler struct {
	router *services.Router
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(router *services.Router) *WebhookHandler {
	return &WebhookHandler{router: router}
}

// HandleDialogflow answers one Dialogflow ES fulfillment call
func (h *WebhookHandler) HandleDialogflow(c *fiber.Ctx) error {
	var req models.WebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sessionKey := utils.SessionKeyFromPath(req.Session)
	if sessionKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session is required",
		})
	}

	intent := services.ParseIntent(req.QueryResult.Intent.DisplayName)
	log.Printf("📩 %s [%s]: %q", sessionKey, intent, req.QueryResult.QueryText)

	reply := h.router.Route(c.UserContext(), intent, sessionKey, req.QueryResult.QueryText)
	return c.JSON(reply.ToDialogflow())
}

// HandleTest accepts a flat {session, intent, message} body for local testing
func (h *WebhookHandler) HandleTest(c *fiber.Ctx) error {
	var req models.TestWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Session == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session is required",
		})
	}

	intent := services.ParseIntent(req.Intent)
	reply := h.router.Route(c.UserContext(), intent, utils.SessionKeyFromPath(req.Session), req.Message)

	return c.JSON(fiber.Map{
		"success":     true,
		"intent":      intent.String(),
		"reply":       reply.Text(),
		"suggestions": reply.Suggestions,
	})
}
