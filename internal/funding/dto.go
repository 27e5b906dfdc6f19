package funding

import (
	"time"

	"github.com/bundler-sim/bundler_sim/internal/envelope"
)

// FundRequest is the body of POST /api/wallets/fund.
type FundRequest struct {
	Wallets []string         `json:"wallets"`
	Amount  *envelope.Number `json:"amount"`
}

// FundedWallet is one funding outcome on the wire.
type FundedWallet struct {
	PublicKey    string    `json:"public_key"`
	Balance      float64   `json:"balance"`
	FundedAmount float64   `json:"funded_amount"`
	CreatedAt    time.Time `json:"created_at"`
	Success      bool      `json:"success"`
	Signature    *string   `json:"signature"`
	Error        *string   `json:"error"`
}

// WithdrawRequest is the body of POST /api/treasury/withdraw.
type WithdrawRequest struct {
	Type              string                     `json:"type"`
	TreasuryAddress   string                     `json:"treasuryAddress"`
	SelectedWallets   []string                   `json:"selectedWallets"`
	WithdrawalAmounts map[string]envelope.Number `json:"withdrawalAmounts"`
}

// WithdrawTransaction is one withdrawal outcome on the wire.
type WithdrawTransaction struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	TxHash        *string   `json:"txHash"`
	GasUsed       string    `json:"gasUsed"`
	Error         *string   `json:"error"`
	Timestamp     time.Time `json:"timestamp"`
	BalanceAfter  float64   `json:"balanceAfter"`
}

// WithdrawResponse is the data of a processed withdrawal.
type WithdrawResponse struct {
	OperationID     string                `json:"operationId"`
	Type            string                `json:"type"`
	TreasuryAddress string                `json:"treasuryAddress"`
	Transactions    []WithdrawTransaction `json:"transactions"`
	TotalWithdrawn  float64               `json:"totalWithdrawn"`
	Status          string                `json:"status"`
	CompletedAt     time.Time             `json:"completedAt"`
}
