package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/token"
)

// RegisterTokenRoutes wires token creation and lookup.
func RegisterTokenRoutes(r fiber.Router, h *token.Handler) {
	r.Post("/tokens/create", h.Create)
	r.Get("/tokens", h.List)
	r.Get("/tokens/:id", h.Get)
}
