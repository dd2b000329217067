package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"malagahomes_backend/pkg/utils/jwt"
)

// AuthMiddleware resolves the session identity from the bearer token and
// stores the claims in the request context. Missing or invalid credentials
// send the client to the login page.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		c.Locals("user", claims)
		return c.Next()
	}
}
