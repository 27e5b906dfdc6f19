package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/middleware"
	"github.com/bundler-sim/bundler_sim/internal/users"
)

// RegisterUserRoutes wires login and account management. Mutations carry the
// admin session in the body; listings take it from a header or query.
func RegisterUserRoutes(r fiber.Router, h *users.Handler, verifier middleware.SessionVerifier, rateLimiter fiber.Handler) {
	r.Post("/users/login", rateLimiter, h.Login)
	r.Post("/users/create", h.Create)
	r.Post("/users/update", h.Update)
	r.Post("/users/delete", h.Delete)

	admin := middleware.AdminSession(verifier)
	r.Get("/users", admin, h.List)
	r.Get("/users/sessions", admin, h.Sessions)
}
