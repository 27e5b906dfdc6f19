package ledger

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrUnknownWallet is returned when a balance is requested for an address the
	// ledger has never seen.
	ErrUnknownWallet = errors.New("unknown wallet")

	// ErrInvalidAmount rejects negative or non-finite amounts.
	ErrInvalidAmount = errors.New("amount must be a finite, non-negative number")
)

// DebitResult captures the outcome of a capped debit.
type DebitResult struct {
	// Debited is the amount actually removed, min(requested, balance).
	Debited float64
	// Balance is the balance left after the debit.
	Balance float64
}

// Ledger is the authoritative mapping of wallet address to native balance.
// Balances never go negative.
type Ledger interface {
	Balance(ctx context.Context, address string) (float64, error)
	EnsureBalance(ctx context.Context, address string, initial float64) (float64, error)
	Credit(ctx context.Context, address string, amount float64) (float64, error)
	Debit(ctx context.Context, address string, amount float64) (DebitResult, error)
}

// ValidAmount reports whether amount can be applied to a balance.
func ValidAmount(amount float64) bool {
	return amount >= 0 && !math.IsInf(amount, 0)
}
