package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/medeasy-backend/database"
	"github.com/Ananth-NQI/medeasy-backend/internal/services"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version     string
	StorageType string
	Completion  string // provider name, empty when none
	Uploads     bool
	Twilio      bool

	db       *gorm.DB // nil when running on the memory store
	sessions services.SessionStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, storageType string, db *gorm.DB, sessions services.SessionStore) *HealthHandler {
	return &HealthHandler{
		Version:     version,
		StorageType: storageType,
		db:          db,
		sessions:    sessions,
	}
}

// Info describes the service and its collaborators
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	response := fiber.Map{
		"service": "MedEasy Pharmacy Webhook",
		"version": h.Version,
		"status":  "healthy",
		"storage": h.StorageType,
		"endpoints": fiber.Map{
			"health":       "/health",
			"webhook":      "/webhook",
			"test_webhook": "/test/webhook",
			"admin":        "/admin",
		},
		"services": fiber.Map{
			"active_sessions": h.sessions.Count(),
			"completion":      h.completionStatus(),
			"uploads":         h.Uploads,
			"whatsapp":        h.Twilio,
		},
	}

	if h.db != nil {
		dbStatus := "connected"
		if err := database.Ping(h.db); err != nil {
			dbStatus = "error: " + err.Error()
		}
		response["database"] = fiber.Map{"status": dbStatus}
	}

	return c.JSON(response)
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	if h.db != nil && database.Ping(h.db) != nil {
		status = "unhealthy"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"version": h.Version,
		"services": fiber.Map{
			"database":   status == "healthy",
			"completion": h.Completion != "",
			"twilio":     h.Twilio,
		},
	})
}

func (h *HealthHandler) completionStatus() string {
	if h.Completion == "" {
		return "Not configured"
	}
	return h.Completion
}
