package bundle

import (
	"time"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

// ExecuteRequest is the body of POST /api/bundle/execute.
type ExecuteRequest struct {
	BundleType      string           `json:"bundle_type"`
	Wallets         []string         `json:"wallets"`
	AmountPerWallet *envelope.Number `json:"amount_per_wallet"`
	Settings        Settings         `json:"settings"`
}

// Settings tune a bundle run. Unknown fields are ignored.
type Settings struct {
	PriorityFee        *envelope.Number `json:"priority_fee"`
	StealthMode        bool             `json:"stealth_mode"`
	StaggerDelay       *envelope.Number `json:"stagger_delay"`
	SuccessProbability *envelope.Number `json:"success_probability"`
	SlippagePercent    *envelope.Number `json:"slippage_percent"`
	MEVProtection      bool             `json:"mev_protection"`
	GasLimit           *uint64          `json:"gas_limit"`
}

// Transaction is one bundle outcome on the wire.
type Transaction struct {
	ID              string  `json:"id"`
	Wallet          string  `json:"wallet"`
	Signature       *string `json:"signature"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	Fee             float64 `json:"fee"`
	Error           *string `json:"error"`
	ExecutionTimeMs int     `json:"execution_time_ms"`
}

// Result is the data of a bundle run.
type Result struct {
	BundleID          string        `json:"bundle_id"`
	BundleType        string        `json:"bundle_type"`
	SuccessCount      int           `json:"success_count"`
	TotalTransactions int           `json:"total_transactions"`
	Transactions      []Transaction `json:"transactions"`
	ExecutionTimeMs   int           `json:"execution_time_ms"`
	TotalCost         float64       `json:"total_cost"`
	AmountPerWallet   float64       `json:"amount_per_wallet"`
	PriorityFee       float64       `json:"priority_fee"`
	StealthMode       bool          `json:"stealth_mode"`
	StaggerDelay      float64       `json:"stagger_delay"`
	Timestamp         time.Time     `json:"timestamp"`
}
