package simulator

import (
	"errors"
	"math"
)

// Validation errors. They are returned before any randomness is drawn and
// before the ledger is touched.
var (
	ErrTreasuryRequired    = errors.New("treasury address is required")
	ErrNoWalletsSelected   = errors.New("no wallets selected for withdrawal")
	ErrTokenFieldsRequired = errors.New("name, symbol, and description are required")
	ErrUnknownBundleType   = errors.New("unknown bundle type")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrInvalidAmount       = errors.New("amount must be a finite number")
)

// ErrTokenPlatform is the simulated deployment failure of CreateToken.
var ErrTokenPlatform = errors.New("token creation failed - platform error")

// Per-item failure messages reported inside outcomes.
const (
	fundingFailure    = "Funding simulation failed"
	withdrawalFailure = "Withdrawal failed - simulated error"
	bundleFailure     = "Transaction failed - simulated error"
)

// IsValidation reports whether err is a request validation error.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrTreasuryRequired,
		ErrNoWalletsSelected,
		ErrTokenFieldsRequired,
		ErrUnknownBundleType,
		ErrInvalidSettings,
		ErrInvalidAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
