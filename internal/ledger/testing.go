package ledger

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that overwrites the balance for an address when using the in-memory ledger.
func SeedBalance(l Ledger, address string, amount float64) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[address] = decimal.NewFromFloat(amount)
	}
}

// Known reports whether the in-memory ledger holds an entry for address.
func Known(l Ledger, address string) bool {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.RLock()
		defer mem.mu.RUnlock()
		_, exists := mem.balances[address]
		return exists
	}
	return false
}
