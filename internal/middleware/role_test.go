package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/neogan74/kvorum/internal/config"
)

func TestRequireRole_Match(t *testing.T) {
	app := fiber.New()
	app.Post("/write", RequireRole(config.RoleLeader, config.RoleLeader), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("POST", "/write", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for matching role, got %d", resp.StatusCode)
	}
}

func TestRequireRole_Mismatch(t *testing.T) {
	tests := []struct {
		name     string
		current  config.Role
		required config.Role
	}{
		{"write on follower", config.RoleFollower, config.RoleLeader},
		{"replicate on leader", config.RoleLeader, config.RoleFollower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/gated", RequireRole(tt.current, tt.required), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			req := httptest.NewRequest("POST", "/gated", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusForbidden {
				t.Errorf("expected 403 for role mismatch, got %d", resp.StatusCode)
			}
		})
	}
}
