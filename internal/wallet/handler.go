package wallet

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type generateRequest struct {
	Count *int `json:"count"`
}

type walletResponse struct {
	PublicKey string    `json:"public_key"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type balanceResponse struct {
	PublicKey   string    `json:"public_key"`
	Balance     float64   `json:"balance"`
	LastUpdated time.Time `json:"last_updated"`
}

// Generate creates fresh wallets.
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	envelope.Bind(c, &req, h.logger)

	wallets, err := h.service.Generate(c.UserContext(), req.Count)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return envelope.OK(c, toWalletResponses(wallets))
}

// List returns every wallet generated by this process.
func (h *Handler) List(c *fiber.Ctx) error {
	wallets, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return envelope.Send(c, envelope.Response{
		Success:      true,
		Data:         toWalletResponses(wallets),
		TotalWallets: envelope.Count(len(wallets)),
	})
}

// Balances reports balances for ?wallets=<json array> or repeated ?address=.
func (h *Handler) Balances(c *fiber.Ctx) error {
	addresses := h.addresses(c)

	balances, err := h.service.Balances(c.UserContext(), addresses)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse{PublicKey: b.PublicKey, Balance: b.Amount, LastUpdated: b.LastUpdated})
	}
	return envelope.Send(c, envelope.Response{
		Success:      true,
		Data:         out,
		TotalWallets: envelope.Count(len(out)),
	})
}

func (h *Handler) addresses(c *fiber.Ctx) []string {
	if raw := c.Query("wallets"); raw != "" {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			h.logger.DebugContext(c.UserContext(), "ignoring malformed wallets query", "error", err)
			return nil
		}
		return list
	}
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti("address") {
		if addr := strings.TrimSpace(string(v)); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func toWalletResponses(wallets []Wallet) []walletResponse {
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, walletResponse{PublicKey: w.PublicKey, Balance: w.Balance, CreatedAt: w.CreatedAt})
	}
	return out
}
