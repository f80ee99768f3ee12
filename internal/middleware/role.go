package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/config"
)

// RequireRole gates an endpoint on the node's configured role. Admission is a
// state-free check per request: writes and deletes are leader-only, the
// replication channel is follower-only.
func RequireRole(current, required config.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if current != required {
			return Forbidden(c, fmt.Sprintf("endpoint requires the %s role, this node is a %s", required, current))
		}
		return c.Next()
	}
}
