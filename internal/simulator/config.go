package simulator

import (
	"fmt"
	"time"
)

// Range is an inclusive range of milliseconds (or plain integers for gas).
type Range struct {
	Min int
	Max int
}

func (r Range) validate(name string) error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("%s: invalid range [%d, %d]", name, r.Min, r.Max)
	}
	return nil
}

// KindConfig holds the probabilistic model for one operation kind.
type KindConfig struct {
	SuccessProbability float64
	SuccessLatency     Range
	FailureLatency     Range
	// ExecutionTime is the aggregate figure reported for a whole batch. It is
	// drawn on its own and is not the sum of item latencies.
	ExecutionTime Range
}

// TokenConfig holds the token deployment model.
type TokenConfig struct {
	SuccessProbability float64
	Delay              Range
	DefaultPlatform    string
}

// Config enumerates every tunable of the engine.
type Config struct {
	Funding    KindConfig
	Withdrawal KindConfig
	Bundle     KindConfig
	Token      TokenConfig

	DefaultFundAmount   float64
	DefaultBundleAmount float64
	DefaultPriorityFee  float64
	DefaultStaggerDelay time.Duration
	DefaultWithdrawType string

	// NetworkDelay is the pause between consecutive funding or withdrawal items.
	NetworkDelay  Range
	WithdrawalGas Range

	// RecordBundles appends bundle runs to the operation history.
	RecordBundles bool
}

// DefaultConfig mirrors the behaviour of the bundler the engine stands in for.
func DefaultConfig() Config {
	return Config{
		Funding: KindConfig{
			SuccessProbability: 0.95,
			SuccessLatency:     Range{Min: 50, Max: 150},
			FailureLatency:     Range{Min: 50, Max: 150},
		},
		Withdrawal: KindConfig{
			SuccessProbability: 0.95,
			SuccessLatency:     Range{Min: 50, Max: 150},
			FailureLatency:     Range{Min: 50, Max: 150},
		},
		Bundle: KindConfig{
			SuccessProbability: 0.90,
			SuccessLatency:     Range{Min: 200, Max: 1000},
			FailureLatency:     Range{Min: 100, Max: 500},
			ExecutionTime:      Range{Min: 1000, Max: 5000},
		},
		Token: TokenConfig{
			SuccessProbability: 0.95,
			Delay:              Range{Min: 1000, Max: 3000},
			DefaultPlatform:    "pancakeswap",
		},
		DefaultFundAmount:   0.1,
		DefaultBundleAmount: 0.1,
		DefaultPriorityFee:  0.001,
		DefaultStaggerDelay: 100 * time.Millisecond,
		DefaultWithdrawType: "withdraw_partial",
		NetworkDelay:        Range{Min: 50, Max: 150},
		WithdrawalGas:       Range{Min: 21000, Max: 25000},
	}
}

// Validate checks probabilities and ranges.
func (c Config) Validate() error {
	for name, p := range map[string]float64{
		"funding success probability":    c.Funding.SuccessProbability,
		"withdrawal success probability": c.Withdrawal.SuccessProbability,
		"bundle success probability":     c.Bundle.SuccessProbability,
		"token success probability":      c.Token.SuccessProbability,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, p)
		}
	}
	ranges := map[string]Range{
		"funding success latency":    c.Funding.SuccessLatency,
		"funding failure latency":    c.Funding.FailureLatency,
		"withdrawal success latency": c.Withdrawal.SuccessLatency,
		"withdrawal failure latency": c.Withdrawal.FailureLatency,
		"bundle success latency":     c.Bundle.SuccessLatency,
		"bundle failure latency":     c.Bundle.FailureLatency,
		"bundle execution time":      c.Bundle.ExecutionTime,
		"token delay":                c.Token.Delay,
		"network delay":              c.NetworkDelay,
		"withdrawal gas":             c.WithdrawalGas,
	}
	for name, r := range ranges {
		if err := r.validate(name); err != nil {
			return err
		}
	}
	if c.DefaultFundAmount < 0 || c.DefaultBundleAmount < 0 || c.DefaultPriorityFee < 0 {
		return fmt.Errorf("default amounts must not be negative")
	}
	if c.DefaultStaggerDelay < 0 {
		return fmt.Errorf("default stagger delay must not be negative")
	}
	return nil
}
