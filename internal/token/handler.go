package token

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
	"github.com/bundler-sim/bundler_sim/internal/simulator"
)

// Handler exposes token endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a token handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createRequest struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Platform    string `json:"platform"`
}

type tokenResponse struct {
	TokenID      string    `json:"tokenId"`
	TokenAddress string    `json:"tokenAddress"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Description  string    `json:"description"`
	Platform     string    `json:"platform"`
	CreatedAt    time.Time `json:"created_at"`
	Status       string    `json:"status"`
}

// Create deploys a token.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	envelope.Bind(c, &req, h.logger)

	t, err := h.service.Create(c.UserContext(), simulator.TokenRequest{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		Platform:    req.Platform,
	})
	if err != nil {
		switch {
		case errors.Is(err, simulator.ErrTokenFieldsRequired):
			return envelope.Fail(c, "Name, symbol, and description are required")
		case errors.Is(err, simulator.ErrTokenPlatform):
			return envelope.Fail(c, "Token creation failed - platform error")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return envelope.OK(c, toResponse(t))
}

// Get returns a previously created token.
func (h *Handler) Get(c *fiber.Ctx) error {
	t, err := h.service.Get(c.Params("id"))
	if err != nil {
		return envelope.FailStatus(c, http.StatusNotFound, "Token not found")
	}
	return envelope.OK(c, toResponse(t))
}

// List returns every created token.
func (h *Handler) List(c *fiber.Ctx) error {
	tokens := h.service.List()
	out := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, toResponse(t))
	}
	return envelope.OK(c, out)
}

func toResponse(t simulator.Token) tokenResponse {
	return tokenResponse{
		TokenID:      t.ID,
		TokenAddress: t.Address,
		Name:         t.Name,
		Symbol:       t.Symbol,
		Description:  t.Description,
		Platform:     t.Platform,
		CreatedAt:    t.CreatedAt,
		Status:       t.Status,
	}
}
