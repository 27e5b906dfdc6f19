package history

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

// Handler exposes read-only views of a Log.
type Handler struct {
	log *Log
}

// NewHandler constructs a history handler.
func NewHandler(log *Log) *Handler {
	return &Handler{log: log}
}

type outcomeResponse struct {
	ID           string    `json:"id"`
	Wallet       string    `json:"wallet"`
	Success      bool      `json:"success"`
	Status       string    `json:"status"`
	Signature    *string   `json:"signature"`
	Amount       float64   `json:"amount"`
	Fee          float64   `json:"fee"`
	Error        *string   `json:"error,omitempty"`
	LatencyMs    int       `json:"latency_ms"`
	BalanceAfter float64   `json:"balance_after"`
	GasUsed      uint64    `json:"gas_used,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type paramsResponse struct {
	Wallets           []string           `json:"wallets,omitempty"`
	Amount            float64            `json:"amount,omitempty"`
	OperationType     string             `json:"operation_type,omitempty"`
	TreasuryAddress   string             `json:"treasury_address,omitempty"`
	WithdrawalAmounts map[string]float64 `json:"withdrawal_amounts,omitempty"`
	BundleType        string             `json:"bundle_type,omitempty"`
}

type operationResponse struct {
	ID        string            `json:"id"`
	Type      Kind              `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Params    paramsResponse    `json:"params"`
	Results   []outcomeResponse `json:"results"`
}

// List returns every recorded operation, oldest first.
func (h *Handler) List(c *fiber.Ctx) error {
	ops := h.log.List()
	out := make([]operationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, toOperation(op))
	}
	return envelope.OK(c, fiber.Map{"operations": out, "total_count": len(out)})
}

// Get returns one operation by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	op, err := h.log.Get(c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return envelope.FailStatus(c, http.StatusNotFound, "Operation not found")
	}
	if err != nil {
		return err
	}
	return envelope.OK(c, toOperation(op))
}

func toOperation(op Operation) operationResponse {
	results := make([]outcomeResponse, 0, len(op.Outcomes))
	for _, o := range op.Outcomes {
		results = append(results, outcomeResponse{
			ID:           o.ID,
			Wallet:       o.Wallet,
			Success:      o.Succeeded,
			Status:       o.Status,
			Signature:    optional(o.Signature),
			Amount:       o.Amount,
			Fee:          o.Fee,
			Error:        optional(o.Error),
			LatencyMs:    o.LatencyMs,
			BalanceAfter: o.BalanceAfter,
			GasUsed:      o.GasUsed,
			Timestamp:    o.Timestamp,
		})
	}
	return operationResponse{
		ID:        op.ID,
		Type:      op.Kind,
		Timestamp: op.Timestamp,
		Params: paramsResponse{
			Wallets:           op.Params.Wallets,
			Amount:            op.Params.Amount,
			OperationType:     op.Params.OperationType,
			TreasuryAddress:   op.Params.TreasuryAddress,
			WithdrawalAmounts: op.Params.WithdrawalAmounts,
			BundleType:        op.Params.BundleType,
		},
		Results: results,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
