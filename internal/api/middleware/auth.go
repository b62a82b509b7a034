package middleware

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"

	"nexusmart.com/internal/domain"
)

// RequireAuth resolves the bearer access token into a user and enforces the
// RBAC policy for the requested path and method. The enforcer is optional;
// without one the middleware only authenticates.
func RequireAuth(tokens domain.TokenService, enforcer *casbin.Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract Token
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Missing Authorization header"})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid Authorization header format"})
		}

		// 2. Resolve the user behind the access token
		user, err := tokens.Authorize(c.Context(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid or expired token"})
		}

		// Store user info in context for downstream handlers
		c.Locals("user", user)
		c.Locals("user_id", user.ID)
		c.Locals("email", user.Email)
		c.Locals("role", user.Role())

		if enforcer == nil {
			return c.Next()
		}

		// 3. Check Permission (subject is the role, not the user)
		sub := user.Role()
		obj := c.Path()
		act := c.Method()

		permit, err := enforcer.Enforce(sub, obj, act)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Permission check failed"})
		}
		if !permit {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": fmt.Sprintf("Role %s is not allowed to %s %s", sub, act, obj),
			})
		}

		return c.Next()
	}
}
