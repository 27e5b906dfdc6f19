package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/metrics"
)

// RegisterOperationRoutes wires the operation history views.
func RegisterOperationRoutes(r fiber.Router, h *history.Handler) {
	r.Get("/operations", h.List)
	r.Get("/operations/:id", h.Get)
}

// MetricsHandler serves the Prometheus registry.
func MetricsHandler(m *metrics.Metrics) fiber.Handler {
	return adaptor.HTTPHandler(m.Handler())
}
