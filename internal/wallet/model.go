package wallet

import "time"

// Wallet is a generated address. Generation does not register it in the
// ledger; a balance appears on first funding or balance query.
type Wallet struct {
	PublicKey string
	Balance   float64
	CreatedAt time.Time
}

// Balance is the reported native balance of one address.
type Balance struct {
	PublicKey   string
	Amount      float64
	LastUpdated time.Time
}
