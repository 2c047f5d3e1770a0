package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/medeasy-backend/internal/handlers"
	"github.com/Ananth-NQI/medeasy-backend/internal/middleware"
)

// Handlers groups everything SetupRoutes mounts
type Handlers struct {
	Webhook    *handlers.WebhookHandler
	Health     *handlers.HealthHandler
	Admin      *handlers.AdminHandler
	AdminToken string
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/", h.Health.Info)
	app.Get("/health", h.Health.Check)

	// ========== WEBHOOK ROUTES ==========
	app.Post("/webhook", h.Webhook.HandleDialogflow)

	// Local testing without Dialogflow
	test := app.Group("/test")
	test.Post("/webhook", h.Webhook.HandleTest)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin", middleware.RequireAdminToken(h.AdminToken))
	admin.Get("/handovers", h.Admin.GetPendingHandovers)
	admin.Get("/conversations/:session/messages", h.Admin.GetConversationMessages)
	admin.Get("/profiles/:phone", h.Admin.GetProfile)
}
