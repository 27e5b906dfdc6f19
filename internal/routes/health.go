package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/chain"
	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

var features = []string{
	"Wallet Generation",
	"Multi-Wallet Bundling",
	"Transaction Simulation",
	"Bundle Execution",
	"Balance Checking",
	"Token Creation",
	"Treasury Withdrawal",
}

// RegisterHealthRoutes adds the health endpoint. Redis is reported but never
// fails the check since the cache is optional.
func RegisterHealthRoutes(app *fiber.App, d Deps, variant chain.Variant) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		redisStatus := "disabled"
		if d.Cache != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			redisStatus = "ok"
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = err.Error()
			}
		}
		return envelope.OK(c, fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"network":   chain.NetworkName(variant),
			"server":    d.Cfg.AppName,
			"features":  features,
			"redis":     redisStatus,
		})
	})
}
