package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
	"github.com/bundler-sim/bundler_sim/internal/notification"
)

// FundRequest asks for every wallet to be credited with Amount. A nil Amount
// uses the configured default.
type FundRequest struct {
	Wallets []string
	Amount  *float64
}

// FundResult is the per-wallet report of a funding batch.
type FundResult struct {
	OperationID string
	Amount      float64
	Outcomes    []history.Outcome
	TotalFunded float64
}

// Fund simulates a funding transfer to each wallet. Failed items leave the
// balance unchanged. Every accepted call appends exactly one operation to the
// history; a non-finite amount is rejected before anything is touched.
func (e *Engine) Fund(ctx context.Context, req FundRequest) (FundResult, error) {
	ctx = context.WithoutCancel(ctx)

	amount := e.cfg.DefaultFundAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !finite(amount) {
		return FundResult{}, e.rejected(ctx, kindFunding, ErrInvalidAmount)
	}

	result := FundResult{
		OperationID: uuid.NewString(),
		Amount:      amount,
		Outcomes:    make([]history.Outcome, 0, len(req.Wallets)),
	}

	if amount > 0 {
		for i, wallet := range req.Wallets {
			if i > 0 {
				e.networkDelay(ctx)
			}
			out, err := e.fundOne(ctx, wallet, amount)
			if err != nil {
				return FundResult{}, err
			}
			if out.Succeeded {
				result.TotalFunded += out.Amount
			}
			result.Outcomes = append(result.Outcomes, out)
		}
	}

	e.record(history.KindFunding, result.OperationID, e.now(), history.Params{
		Wallets: req.Wallets,
		Amount:  amount,
	}, result.Outcomes)
	e.metrics.ObserveBatch(kindFunding, len(req.Wallets))
	e.metrics.ObserveVolume(kindFunding, result.TotalFunded)

	e.logger.InfoContext(ctx, "funding batch completed",
		"operation_id", result.OperationID,
		"wallets", len(req.Wallets),
		"amount", amount,
		"total_funded", result.TotalFunded,
	)
	e.notify(ctx, notification.KindFundingCompleted, result.OperationID,
		fmt.Sprintf("funded %d of %d wallets", countConfirmed(result.Outcomes), len(req.Wallets)))

	return result, nil
}

func (e *Engine) fundOne(ctx context.Context, wallet string, amount float64) (history.Outcome, error) {
	ok := e.source.Succeeds(e.cfg.Funding.SuccessProbability)
	out := history.Outcome{
		ID:        newTxID(),
		Wallet:    wallet,
		Succeeded: ok,
		Status:    statusOf(ok),
		LatencyMs: e.latency(e.cfg.Funding, ok),
		Timestamp: e.now(),
	}

	if ok {
		bal, err := e.ledger.Credit(ctx, wallet, amount)
		if err != nil {
			return history.Outcome{}, err
		}
		out.Amount = amount
		out.BalanceAfter = bal
		out.Signature = e.generator.Signature()
	} else {
		bal, err := e.ledger.Balance(ctx, wallet)
		if err != nil && !errors.Is(err, ledger.ErrUnknownWallet) {
			return history.Outcome{}, err
		}
		out.BalanceAfter = bal
		out.Error = fundingFailure
	}

	e.metrics.ObserveOutcome(kindFunding, out.Status, out.LatencyMs)
	return out, nil
}

func countConfirmed(outcomes []history.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Succeeded {
			n++
		}
	}
	return n
}
