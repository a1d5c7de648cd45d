package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"adminapi/internal/http/response"
	"adminapi/internal/logging"
)

// Check is a named dependency probe used by HealthCheck.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthCheck pings every dependency and reports 503 when one is down.
//
// @Summary Readiness check
// @Tags system
// @Produce json
// @Success 200 {object} schema.ResponseModel
// @Router /health [get]
func HealthCheck(checks ...Check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		for _, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				logging.L.Warn("health check failed", "component", "health", "dependency", chk.Name, "err", err)
				return response.Error(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
//
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} schema.ResponseModel
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
