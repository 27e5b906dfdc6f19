package stats

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

// Handler serves GET /api/statistics.
type Handler struct {
	service *Service
}

// NewHandler constructs a statistics handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the current Summary.
func (h *Handler) Get(c *fiber.Ctx) error {
	return envelope.OK(c, h.service.Summary())
}
