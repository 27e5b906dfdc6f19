package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/bundle"
)

// RegisterBundleRoutes wires bundle execution.
func RegisterBundleRoutes(r fiber.Router, h *bundle.Handler) {
	r.Post("/bundle/execute", h.Execute)
}
