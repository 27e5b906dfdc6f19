package simulator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
	"github.com/bundler-sim/bundler_sim/internal/notification"
)

// WithdrawStatusCompleted is the batch status of every processed withdrawal.
const WithdrawStatusCompleted = "completed"

// WithdrawRequest moves funds from the selected wallets to a treasury.
type WithdrawRequest struct {
	Type            string
	TreasuryAddress string
	SelectedWallets []string
	Amounts         map[string]float64
}

// WithdrawResult reports a processed treasury withdrawal.
type WithdrawResult struct {
	OperationID     string
	Type            string
	TreasuryAddress string
	Outcomes        []history.Outcome
	TotalWithdrawn  float64
	Status          string
	CompletedAt     time.Time
}

// Withdraw debits each selected wallet by its requested amount, capped at
// the current balance, in selection order. Wallets with a non-positive
// requested or capped amount are skipped, as are wallets drained by a
// concurrent call before their debit. Amounts keyed by wallets outside
// SelectedWallets are ignored.
func (e *Engine) Withdraw(ctx context.Context, req WithdrawRequest) (WithdrawResult, error) {
	if strings.TrimSpace(req.TreasuryAddress) == "" {
		return WithdrawResult{}, e.rejected(ctx, kindWithdrawal, ErrTreasuryRequired)
	}
	if len(req.SelectedWallets) == 0 {
		return WithdrawResult{}, e.rejected(ctx, kindWithdrawal, ErrNoWalletsSelected)
	}
	for _, amount := range req.Amounts {
		if !finite(amount) {
			return WithdrawResult{}, e.rejected(ctx, kindWithdrawal, ErrInvalidAmount)
		}
	}
	ctx = context.WithoutCancel(ctx)

	if req.Type == "" {
		req.Type = e.cfg.DefaultWithdrawType
	}
	result := WithdrawResult{
		OperationID:     uuid.NewString(),
		Type:            req.Type,
		TreasuryAddress: req.TreasuryAddress,
		Outcomes:        make([]history.Outcome, 0, len(req.SelectedWallets)),
		Status:          WithdrawStatusCompleted,
	}

	processed := 0
	for _, wallet := range req.SelectedWallets {
		requested := req.Amounts[wallet]
		if requested <= 0 {
			continue
		}
		if processed > 0 {
			e.networkDelay(ctx)
		}
		out, skipped, err := e.withdrawOne(ctx, wallet, requested)
		if err != nil {
			return WithdrawResult{}, err
		}
		if skipped {
			continue
		}
		processed++
		if out.Succeeded {
			result.TotalWithdrawn += out.Amount
		}
		result.Outcomes = append(result.Outcomes, out)
	}
	result.CompletedAt = e.now()

	e.record(history.KindWithdrawal, result.OperationID, result.CompletedAt, history.Params{
		Wallets:           req.SelectedWallets,
		OperationType:     req.Type,
		TreasuryAddress:   req.TreasuryAddress,
		WithdrawalAmounts: req.Amounts,
	}, result.Outcomes)
	e.metrics.ObserveBatch(kindWithdrawal, len(req.SelectedWallets))
	e.metrics.ObserveVolume(kindWithdrawal, result.TotalWithdrawn)

	e.logger.InfoContext(ctx, "treasury withdrawal completed",
		"operation_id", result.OperationID,
		"treasury", req.TreasuryAddress,
		"wallets", len(req.SelectedWallets),
		"processed", len(result.Outcomes),
		"total_withdrawn", result.TotalWithdrawn,
	)
	e.notify(ctx, notification.KindWithdrawalCompleted, req.TreasuryAddress,
		fmt.Sprintf("withdrew %.6f from %d wallets", result.TotalWithdrawn, countConfirmed(result.Outcomes)))

	return result, nil
}

func (e *Engine) withdrawOne(ctx context.Context, wallet string, requested float64) (history.Outcome, bool, error) {
	balance, err := e.ledger.Balance(ctx, wallet)
	if err != nil && !errors.Is(err, ledger.ErrUnknownWallet) {
		return history.Outcome{}, false, err
	}
	capped := min(requested, balance)
	if capped <= 0 {
		return history.Outcome{}, true, nil
	}

	// The debit below re-caps under the ledger lock; capped only gates the draw.
	ok := e.source.Succeeds(e.cfg.Withdrawal.SuccessProbability)
	out := history.Outcome{
		ID:           newTxID(),
		Wallet:       wallet,
		Succeeded:    ok,
		Status:       statusOf(ok),
		LatencyMs:    e.latency(e.cfg.Withdrawal, ok),
		BalanceAfter: balance,
		Timestamp:    e.now(),
	}

	if ok {
		res, err := e.ledger.Debit(ctx, wallet, capped)
		if err != nil {
			return history.Outcome{}, false, err
		}
		if res.Debited <= 0 {
			return history.Outcome{}, true, nil
		}
		out.Amount = res.Debited
		out.BalanceAfter = res.Balance
		out.Signature = e.generator.Signature()
		out.GasUsed = uint64(e.jitter.IntBetween(e.cfg.WithdrawalGas.Min, e.cfg.WithdrawalGas.Max))
	} else {
		out.Error = withdrawalFailure
	}

	e.metrics.ObserveOutcome(kindWithdrawal, out.Status, out.LatencyMs)
	return out, false, nil
}
