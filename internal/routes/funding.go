package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/funding"
)

// RegisterTreasuryRoutes wires the treasury withdrawal endpoint.
func RegisterTreasuryRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/treasury/withdraw", h.Withdraw)
}
