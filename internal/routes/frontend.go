package routes

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterFrontend serves the dashboard page at / when a path is configured.
func RegisterFrontend(app *fiber.App, path string) {
	if path == "" {
		return
	}
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
		if err := c.SendFile(path); err != nil {
			return fiber.ErrNotFound
		}
		return nil
	})
}
