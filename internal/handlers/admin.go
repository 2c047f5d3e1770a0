package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/medeasy-backend/internal/services"
	"github.com/Ananth-NQI/medeasy-backend/internal/storage"
)

// AdminHandler serves the pharmacist console
type AdminHandler struct {
	store storage.Store
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// GetPendingHandovers lists conversations waiting for a pharmacist
func (h *AdminHandler) GetPendingHandovers(c *fiber.Ctx) error {
	flags, err := h.store.GetPendingHandovers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch pending handovers",
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"handovers": flags,
		"count":     len(flags),
	})
}

// GetConversationMessages returns the message log of one session
func (h *AdminHandler) GetConversationMessages(c *fiber.Ctx) error {
	sessionKey := c.Params("session")

	messages, err := h.store.GetMessagesBySession(c.UserContext(), sessionKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	resp := fiber.Map{
		"success":  true,
		"session":  sessionKey,
		"messages": messages,
		"count":    len(messages),
	}
	if flag, err := h.store.GetHandoverFlag(c.UserContext(), sessionKey); err == nil {
		resp["needs_human"] = flag.NeedsHuman
	}
	return c.JSON(resp)
}

// GetProfile looks up a customer by phone; separators in the path are ignored
func (h *AdminHandler) GetProfile(c *fiber.Ctx) error {
	phone := services.NormalizePhone(c.Params("phone"))

	profile, err := h.store.GetProfileByPhone(c.UserContext(), phone)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"profile": profile,
	})
}
