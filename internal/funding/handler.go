package funding

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/simulator"
)

const invalidAmount = "Amount must be a finite number"

// Simulator is the subset of the engine the funding endpoints drive.
type Simulator interface {
	Fund(ctx context.Context, req simulator.FundRequest) (simulator.FundResult, error)
	Withdraw(ctx context.Context, req simulator.WithdrawRequest) (simulator.WithdrawResult, error)
}

// Handler exposes HTTP endpoints for wallet funding and treasury withdrawal.
type Handler struct {
	engine Simulator
	logger *slog.Logger
}

// NewHandler constructs a funding handler.
func NewHandler(engine Simulator, logger *slog.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Fund credits every listed wallet.
func (h *Handler) Fund(c *fiber.Ctx) error {
	var req FundRequest
	envelope.Bind(c, &req, h.logger)

	result, err := h.engine.Fund(c.UserContext(), simulator.FundRequest{
		Wallets: req.Wallets,
		Amount:  req.Amount.Float(),
	})
	if errors.Is(err, simulator.ErrInvalidAmount) {
		return envelope.Fail(c, invalidAmount)
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	data := make([]FundedWallet, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		fw := FundedWallet{
			PublicKey:    o.Wallet,
			Balance:      o.BalanceAfter,
			FundedAmount: o.Amount,
			CreatedAt:    o.Timestamp,
			Success:      o.Succeeded,
			Signature:    optional(o.Signature),
			Error:        optional(o.Error),
		}
		data = append(data, fw)
	}
	return envelope.Send(c, envelope.Response{
		Success:     true,
		Data:        data,
		OperationID: result.OperationID,
	})
}

// Withdraw moves funds from the selected wallets to the treasury.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	envelope.Bind(c, &req, h.logger)

	amounts := make(map[string]float64, len(req.WithdrawalAmounts))
	for addr, a := range req.WithdrawalAmounts {
		amounts[addr] = float64(a)
	}

	result, err := h.engine.Withdraw(c.UserContext(), simulator.WithdrawRequest{
		Type:            req.Type,
		TreasuryAddress: req.TreasuryAddress,
		SelectedWallets: req.SelectedWallets,
		Amounts:         amounts,
	})
	if err != nil {
		switch {
		case errors.Is(err, simulator.ErrTreasuryRequired):
			return envelope.Fail(c, "Treasury address is required")
		case errors.Is(err, simulator.ErrNoWalletsSelected):
			return envelope.Fail(c, "No wallets selected for withdrawal")
		case errors.Is(err, simulator.ErrInvalidAmount):
			return envelope.Fail(c, invalidAmount)
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	txs := make([]WithdrawTransaction, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		txs = append(txs, toTransaction(o))
	}
	return envelope.OK(c, WithdrawResponse{
		OperationID:     result.OperationID,
		Type:            result.Type,
		TreasuryAddress: result.TreasuryAddress,
		Transactions:    txs,
		TotalWithdrawn:  result.TotalWithdrawn,
		Status:          result.Status,
		CompletedAt:     result.CompletedAt,
	})
}

func toTransaction(o history.Outcome) WithdrawTransaction {
	return WithdrawTransaction{
		ID:            o.ID,
		WalletAddress: o.Wallet,
		Amount:        o.Amount,
		Status:        o.Status,
		TxHash:        optional(o.Signature),
		GasUsed:       strconv.FormatUint(o.GasUsed, 10),
		Error:         optional(o.Error),
		Timestamp:     o.Timestamp,
		BalanceAfter:  o.BalanceAfter,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
