package handler

import (
	"strings"

	"github.com/chopsqd/identity-service/internal/auth/service"
	"github.com/chopsqd/identity-service/pkg/constant"
	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the fiber locals key under which the guard stores the
// verified access-token claims.
const CurrentUserKey = "currentUser"

// RequireAuth verifies the Bearer access token and stashes its claims for
// downstream handlers.
func RequireAuth(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, constant.BearerPrefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		claims, err := tokens.VerifyAccessToken(strings.TrimPrefix(header, constant.BearerPrefix))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid access token"})
		}

		c.Locals(CurrentUserKey, claims)

		return c.Next()
	}
}
