// Package stats derives dashboard figures from the operation history and the
// token registry. Nothing is stored; every call recomputes from snapshots.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/simulator"
)

const chartDateLayout = "Jan 2"

// OperationSource lists recorded batch operations.
type OperationSource interface {
	List() []history.Operation
}

// TokenSource lists deployed tokens in creation order.
type TokenSource interface {
	List() []simulator.Token
}

// ChartPoint is the volume moved on one UTC day.
type ChartPoint struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

// Summary is the statistics payload.
type Summary struct {
	TokensLaunched         int          `json:"tokensLaunched"`
	LastLaunch             string       `json:"lastLaunch"`
	TotalOperations        int          `json:"totalOperations"`
	FundingOperations      int          `json:"fundingOperations"`
	WithdrawalOperations   int          `json:"withdrawalOperations"`
	BundleExecutions       int          `json:"bundleExecutions"`
	TotalFunded            float64      `json:"totalFunded"`
	TotalWithdrawn         float64      `json:"totalWithdrawn"`
	SuccessfulTransactions int          `json:"successfulTransactions"`
	FailedTransactions     int          `json:"failedTransactions"`
	SuccessRate            float64      `json:"successRate"`
	ChartData              []ChartPoint `json:"chartData"`
}

// Service computes Summary values.
type Service struct {
	ops    OperationSource
	tokens TokenSource
}

// NewService wires a statistics service.
func NewService(ops OperationSource, tokens TokenSource) *Service {
	return &Service{ops: ops, tokens: tokens}
}

// Summary aggregates the current history.
func (s *Service) Summary() Summary {
	var out Summary

	tokens := s.tokens.List()
	out.TokensLaunched = len(tokens)
	if n := len(tokens); n > 0 {
		out.LastLaunch = "$" + tokens[n-1].Symbol
	}

	funded, withdrawn := decimal.Zero, decimal.Zero
	daily := map[time.Time]decimal.Decimal{}

	for _, op := range s.ops.List() {
		out.TotalOperations++
		switch op.Kind {
		case history.KindFunding:
			out.FundingOperations++
		case history.KindWithdrawal:
			out.WithdrawalOperations++
		case history.KindBundleExecution:
			out.BundleExecutions++
		}

		day := op.Timestamp.UTC().Truncate(24 * time.Hour)
		for _, o := range op.Outcomes {
			if !o.Succeeded {
				out.FailedTransactions++
				continue
			}
			out.SuccessfulTransactions++

			amount := decimal.NewFromFloat(o.Amount)
			switch op.Kind {
			case history.KindFunding:
				funded = funded.Add(amount)
			case history.KindWithdrawal:
				withdrawn = withdrawn.Add(amount)
			}
			daily[day] = daily[day].Add(amount)
		}
	}

	out.TotalFunded = funded.InexactFloat64()
	out.TotalWithdrawn = withdrawn.InexactFloat64()
	if total := out.SuccessfulTransactions + out.FailedTransactions; total > 0 {
		out.SuccessRate = decimal.NewFromInt(int64(out.SuccessfulTransactions)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total))).
			Round(2).
			InexactFloat64()
	}
	out.ChartData = chart(daily)
	return out
}

func chart(daily map[time.Time]decimal.Decimal) []ChartPoint {
	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]ChartPoint, 0, len(days))
	for _, d := range days {
		points = append(points, ChartPoint{Date: d.Format(chartDateLayout), Volume: daily[d].InexactFloat64()})
	}
	return points
}
