package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	ping func() error
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if err := h.ping(); err != nil {
		log.Warn().Err(err).Msg("health: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"status":  "unavailable",
		})
	}
	return c.JSON(fiber.Map{"success": true, "status": "ok"})
}
