package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware lets only requests with a session through.
func AuthMiddleware(c *fiber.Ctx) error {
	if Claims(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.Next()
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if !claims.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}
		return c.Next()
	}
}

// StatusMiddleware sends blocked accounts to the blocked page. The page itself and the
// auth endpoints stay reachable so the user can read the notice and log out.
func StatusMiddleware(blockedPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil || !claims.IsBlocked {
			return c.Next()
		}
		path := c.Path()
		if path == blockedPath || strings.HasPrefix(path, "/api/auth/") {
			return c.Next()
		}
		return c.Redirect(blockedPath, fiber.StatusFound)
	}
}
