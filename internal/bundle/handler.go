package bundle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
	"github.com/bundler-sim/bundler_sim/internal/simulator"
)

// Executor runs bundles.
type Executor interface {
	ExecuteBundle(ctx context.Context, req simulator.BundleRequest) (simulator.BundleResult, error)
}

// Handler exposes the bundle endpoint.
type Handler struct {
	engine Executor
	logger *slog.Logger
}

// NewHandler constructs a bundle handler.
func NewHandler(engine Executor, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Execute runs one trade per wallet.
func (h *Handler) Execute(c *fiber.Ctx) error {
	var req ExecuteRequest
	envelope.Bind(c, &req, h.logger)

	res, err := h.engine.ExecuteBundle(c.UserContext(), simulator.BundleRequest{
		Type:            req.BundleType,
		Wallets:         req.Wallets,
		AmountPerWallet: req.AmountPerWallet.Float(),
		Settings: simulator.BundleSettings{
			PriorityFee:        req.Settings.PriorityFee.Float(),
			StealthMode:        req.Settings.StealthMode,
			StaggerDelayMs:     req.Settings.StaggerDelay.Float(),
			SuccessProbability: req.Settings.SuccessProbability.Float(),
			SlippagePercent:    req.Settings.SlippagePercent.Float(),
			MEVProtection:      req.Settings.MEVProtection,
			GasLimit:           req.Settings.GasLimit,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, simulator.ErrUnknownBundleType):
			return envelope.Fail(c, "Unknown bundle type")
		case errors.Is(err, simulator.ErrInvalidSettings):
			return envelope.Fail(c, "Invalid bundle settings")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	out := Result{
		BundleID:          res.BundleID,
		BundleType:        string(res.BundleType),
		SuccessCount:      res.SuccessCount,
		TotalTransactions: res.TotalTransactions,
		Transactions:      make([]Transaction, 0, len(res.Transactions)),
		ExecutionTimeMs:   res.ExecutionTimeMs,
		TotalCost:         res.TotalCost,
		AmountPerWallet:   res.AmountPerWallet,
		PriorityFee:       res.PriorityFee,
		StealthMode:       res.StealthMode,
		StaggerDelay:      res.StaggerDelayMs,
		Timestamp:         res.Timestamp,
	}
	for _, o := range res.Transactions {
		tx := Transaction{
			ID:              o.ID,
			Wallet:          o.Wallet,
			Status:          o.Status,
			Amount:          o.Amount,
			Fee:             o.Fee,
			ExecutionTimeMs: o.LatencyMs,
		}
		if o.Signature != "" {
			sig := o.Signature
			tx.Signature = &sig
		}
		if o.Error != "" {
			msg := o.Error
			tx.Error = &msg
		}
		out.Transactions = append(out.Transactions, tx)
	}
	return envelope.OK(c, out)
}
