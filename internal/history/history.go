// Package history keeps the append-only audit log of completed batch operations.
package history

import (
	"errors"
	"sync"
	"time"
)

// Kind names the batch that produced an Operation.
type Kind string

const (
	KindFunding         Kind = "funding"
	KindWithdrawal      Kind = "treasury_withdrawal"
	KindBundleExecution Kind = "bundle_execution"
)

// ErrNotFound is returned by Get for an unknown operation id.
var ErrNotFound = errors.New("operation not found")

// Outcome is the per-wallet result of one batch item. Empty Signature and
// Error mean "none".
type Outcome struct {
	ID           string
	Wallet       string
	Succeeded    bool
	Status       string
	Signature    string
	Amount       float64
	Fee          float64
	Error        string
	LatencyMs    int
	BalanceAfter float64
	GasUsed      uint64
	Timestamp    time.Time
}

// Params records the inputs of the call that produced an Operation.
type Params struct {
	Wallets           []string
	Amount            float64
	OperationType     string
	TreasuryAddress   string
	WithdrawalAmounts map[string]float64
	BundleType        string
}

// Operation is one completed, ledger-affecting batch call.
type Operation struct {
	ID        string
	Kind      Kind
	Timestamp time.Time
	Params    Params
	Outcomes  []Outcome
}

// Log is an append-only, concurrency-safe operation history. It grows for the
// lifetime of the process.
type Log struct {
	mu   sync.RWMutex
	ops  []Operation
	byID map[string]int
}

// NewLog returns an empty history.
func NewLog() *Log {
	return &Log{byID: make(map[string]int)}
}

// Append stores a copy of op.
func (l *Log) Append(op Operation) {
	op = clone(op)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[op.ID] = len(l.ops)
	l.ops = append(l.ops, op)
}

// List returns a point-in-time copy of all operations in append order.
func (l *Log) List() []Operation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Operation, len(l.ops))
	for i, op := range l.ops {
		out[i] = clone(op)
	}
	return out
}

// Get returns the operation with the given id.
func (l *Log) Get(id string) (Operation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byID[id]
	if !ok {
		return Operation{}, ErrNotFound
	}
	return clone(l.ops[idx]), nil
}

// Len returns the number of recorded operations.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ops)
}

func clone(op Operation) Operation {
	if op.Outcomes != nil {
		op.Outcomes = append([]Outcome(nil), op.Outcomes...)
	}
	if op.Params.Wallets != nil {
		op.Params.Wallets = append([]string(nil), op.Params.Wallets...)
	}
	if op.Params.WithdrawalAmounts != nil {
		amounts := make(map[string]float64, len(op.Params.WithdrawalAmounts))
		for k, v := range op.Params.WithdrawalAmounts {
			amounts[k] = v
		}
		op.Params.WithdrawalAmounts = amounts
	}
	return op
}
