package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/database"
	"github.com/placement-cell/placements-api/utils/response"
)

// HealthCheck reports liveness and database reachability
func HealthCheck(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status":   "ok",
			"database": "ok",
		}

		if err := store.HealthCheck(); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}

		return response.Success(c, status)
	}
}
