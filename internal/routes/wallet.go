package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/funding"
	"github.com/bundler-sim/bundler_sim/internal/wallet"
)

// RegisterWalletRoutes wires wallet generation, funding and balance endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, f *funding.Handler) {
	r.Get("/wallets", h.List)
	r.Post("/wallets/generate", h.Generate)
	r.Post("/wallets/fund", f.Fund)
	r.Get("/wallets/balances", h.Balances)
}
