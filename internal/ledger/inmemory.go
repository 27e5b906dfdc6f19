package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

type inMemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewInMemory creates a concurrency-safe in-memory ledger. It lives for the
// lifetime of the process; nothing is persisted.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		balances: make(map[string]decimal.Decimal),
	}
}

func (l *inMemoryLedger) Balance(_ context.Context, address string) (float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	balance, exists := l.balances[address]
	if !exists {
		return 0, ErrUnknownWallet
	}
	return balance.InexactFloat64(), nil
}

func (l *inMemoryLedger) EnsureBalance(_ context.Context, address string, initial float64) (float64, error) {
	if !ValidAmount(initial) {
		return 0, fmt.Errorf("initial balance: %w", ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if balance, exists := l.balances[address]; exists {
		return balance.InexactFloat64(), nil
	}
	seeded := decimal.NewFromFloat(initial)
	l.balances[address] = seeded
	return seeded.InexactFloat64(), nil
}

func (l *inMemoryLedger) Credit(_ context.Context, address string, amount float64) (float64, error) {
	if !ValidAmount(amount) {
		return 0, fmt.Errorf("credit %s: %w", address, ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[address].Add(decimal.NewFromFloat(amount))
	l.balances[address] = balance
	return balance.InexactFloat64(), nil
}

func (l *inMemoryLedger) Debit(_ context.Context, address string, amount float64) (DebitResult, error) {
	if !ValidAmount(amount) {
		return DebitResult{}, fmt.Errorf("debit %s: %w", address, ErrInvalidAmount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, exists := l.balances[address]
	if !exists {
		return DebitResult{}, nil
	}

	debited := decimal.Min(decimal.NewFromFloat(amount), balance)
	balance = balance.Sub(debited)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	l.balances[address] = balance

	return DebitResult{
		Debited: debited.InexactFloat64(),
		Balance: balance.InexactFloat64(),
	}, nil
}
