package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireAdminToken guards the pharmacist console with a shared bearer token.
// With no token configured every request is refused.
func RequireAdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			log.Println("⚠️  ADMIN_TOKEN not set, refusing admin request")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Admin API not configured",
			})
		}

		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing admin token",
			})
		}

		given := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid admin token",
			})
		}

		return c.Next()
	}
}
