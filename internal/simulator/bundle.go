package simulator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/notification"
)

// BundleType selects the kind of coordinated trade.
type BundleType string

const (
	BundleBuy        BundleType = "buy"
	BundleSell       BundleType = "sell"
	BundleDistribute BundleType = "distribute"
	BundleVolume     BundleType = "volume"
)

// ParseBundleType normalises s. Empty means buy.
func ParseBundleType(s string) (BundleType, error) {
	switch t := BundleType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return BundleBuy, nil
	case BundleBuy, BundleSell, BundleDistribute, BundleVolume:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBundleType, s)
	}
}

// BundleSettings tune a bundle run. Nil pointers take the configured default.
type BundleSettings struct {
	PriorityFee        *float64
	StealthMode        bool
	StaggerDelayMs     *float64
	SuccessProbability *float64
	// SlippagePercent, MEVProtection and GasLimit are echoed back only.
	SlippagePercent *float64
	MEVProtection   bool
	GasLimit        *uint64
}

// BundleRequest executes one trade per wallet.
type BundleRequest struct {
	Type            string
	Wallets         []string
	AmountPerWallet *float64
	Settings        BundleSettings
}

// BundleResult is the report of a bundle run.
type BundleResult struct {
	BundleID          string
	BundleType        BundleType
	Transactions      []history.Outcome
	SuccessCount      int
	TotalTransactions int
	// ExecutionTimeMs is drawn on its own and does not equal the sum of the
	// item latencies.
	ExecutionTimeMs int
	TotalCost       float64
	AmountPerWallet float64
	PriorityFee     float64
	StealthMode     bool
	StaggerDelayMs  float64
	Timestamp       time.Time
}

type resolvedSettings struct {
	fee         float64
	probability float64
	stagger     time.Duration
	staggerMs   float64
}

func (e *Engine) resolveSettings(s BundleSettings) (resolvedSettings, error) {
	r := resolvedSettings{
		fee:         e.cfg.DefaultPriorityFee,
		probability: e.cfg.Bundle.SuccessProbability,
		staggerMs:   float64(e.cfg.DefaultStaggerDelay) / float64(time.Millisecond),
	}
	if s.PriorityFee != nil {
		if !finite(*s.PriorityFee) || *s.PriorityFee < 0 {
			return r, fmt.Errorf("%w: priority fee must not be negative", ErrInvalidSettings)
		}
		r.fee = *s.PriorityFee
	}
	if s.SuccessProbability != nil {
		if p := *s.SuccessProbability; !finite(p) || p < 0 || p > 1 {
			return r, fmt.Errorf("%w: success probability must be within [0, 1]", ErrInvalidSettings)
		}
		r.probability = *s.SuccessProbability
	}
	if s.StaggerDelayMs != nil {
		if !finite(*s.StaggerDelayMs) || *s.StaggerDelayMs < 0 {
			return r, fmt.Errorf("%w: stagger delay must not be negative", ErrInvalidSettings)
		}
		r.staggerMs = *s.StaggerDelayMs
	}
	if s.SlippagePercent != nil && (!finite(*s.SlippagePercent) || *s.SlippagePercent < 0) {
		return r, fmt.Errorf("%w: slippage must not be negative", ErrInvalidSettings)
	}
	r.stagger = time.Duration(r.staggerMs * float64(time.Millisecond))
	return r, nil
}

// ExecuteBundle simulates one trade per wallet. It never touches the ledger.
func (e *Engine) ExecuteBundle(ctx context.Context, req BundleRequest) (BundleResult, error) {
	typ, err := ParseBundleType(req.Type)
	if err != nil {
		return BundleResult{}, e.rejected(ctx, kindBundle, err)
	}
	settings, err := e.resolveSettings(req.Settings)
	if err != nil {
		return BundleResult{}, e.rejected(ctx, kindBundle, err)
	}
	amount := e.cfg.DefaultBundleAmount
	if req.AmountPerWallet != nil {
		if !finite(*req.AmountPerWallet) || *req.AmountPerWallet < 0 {
			return BundleResult{}, e.rejected(ctx, kindBundle, fmt.Errorf("%w: amount per wallet must not be negative", ErrInvalidSettings))
		}
		amount = *req.AmountPerWallet
	}
	ctx = context.WithoutCancel(ctx)

	result := BundleResult{
		BundleID:          uuid.NewString(),
		BundleType:        typ,
		Transactions:      make([]history.Outcome, 0, len(req.Wallets)),
		TotalTransactions: len(req.Wallets),
		AmountPerWallet:   amount,
		PriorityFee:       settings.fee,
		StealthMode:       req.Settings.StealthMode,
		StaggerDelayMs:    settings.staggerMs,
	}

	wait := func(context.Context) {}
	if req.Settings.StealthMode {
		wait = e.pacer.Spacer(settings.stagger)
	}

	for _, wallet := range req.Wallets {
		wait(ctx)

		ok := e.source.Succeeds(settings.probability)
		out := history.Outcome{
			ID:        newTxID(),
			Wallet:    wallet,
			Succeeded: ok,
			Status:    statusOf(ok),
			Amount:    amount,
			LatencyMs: e.latency(e.cfg.Bundle, ok),
			Timestamp: e.now(),
		}
		if ok {
			out.Signature = e.generator.Signature()
			out.Fee = settings.fee
			result.SuccessCount++
			result.TotalCost += amount + settings.fee
		} else {
			out.Error = bundleFailure
		}
		e.metrics.ObserveOutcome(kindBundle, out.Status, out.LatencyMs)
		result.Transactions = append(result.Transactions, out)
	}

	result.ExecutionTimeMs = e.jitter.IntBetween(e.cfg.Bundle.ExecutionTime.Min, e.cfg.Bundle.ExecutionTime.Max)
	result.Timestamp = e.now()

	if e.cfg.RecordBundles {
		e.record(history.KindBundleExecution, result.BundleID, result.Timestamp, history.Params{
			Wallets:    req.Wallets,
			Amount:     amount,
			BundleType: string(typ),
		}, result.Transactions)
	}
	e.metrics.ObserveBatch(kindBundle, len(req.Wallets))
	e.metrics.ObserveVolume(kindBundle, result.TotalCost)

	e.logger.InfoContext(ctx, "bundle executed",
		"bundle_id", result.BundleID,
		"type", string(typ),
		"wallets", len(req.Wallets),
		"succeeded", result.SuccessCount,
		"stealth", req.Settings.StealthMode,
	)
	e.notify(ctx, notification.KindBundleExecuted, result.BundleID,
		fmt.Sprintf("%s bundle: %d/%d confirmed", typ, result.SuccessCount, result.TotalTransactions))

	return result, nil
}
