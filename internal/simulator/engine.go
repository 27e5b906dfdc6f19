// Package simulator runs the probabilistic bundler operations: funding,
// treasury withdrawal, bundle execution and token deployment.
package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bundler-sim/bundler_sim/internal/chain"
	"github.com/bundler-sim/bundler_sim/internal/chance"
	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
	"github.com/bundler-sim/bundler_sim/internal/metrics"
	"github.com/bundler-sim/bundler_sim/internal/notification"
)

// Outcome statuses.
const (
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Metric and log labels for each operation kind.
const (
	kindFunding    = "funding"
	kindWithdrawal = "withdrawal"
	kindBundle     = "bundle"
	kindToken      = "token"
)

// Deps are the collaborators of an Engine. Ledger, History and Generator are
// required; everything else falls back to a production default.
type Deps struct {
	Ledger    ledger.Ledger
	History   *history.Log
	Generator chain.Generator
	Source    chance.Source
	Jitter    chance.Jitter
	Pacer     Pacer
	Notifier  notification.Notifier
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Engine executes simulated operations against a shared ledger and history.
// It is safe for concurrent use.
type Engine struct {
	cfg       Config
	ledger    ledger.Ledger
	history   *history.Log
	generator chain.Generator
	source    chance.Source
	jitter    chance.Jitter
	pacer     Pacer
	notifier  notification.Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// New constructs an Engine.
func New(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Ledger == nil || deps.History == nil || deps.Generator == nil {
		return nil, fmt.Errorf("simulator: ledger, history and generator are required")
	}
	e := &Engine{
		cfg:       cfg,
		ledger:    deps.Ledger,
		history:   deps.History,
		generator: deps.Generator,
		source:    deps.Source,
		jitter:    deps.Jitter,
		pacer:     deps.Pacer,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		now:       deps.Clock,
	}
	if e.source == nil {
		e.source = chance.Random{}
	}
	if e.jitter == nil {
		e.jitter = chance.Random{}
	}
	if e.pacer == nil {
		e.pacer = RealPacer{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Ledger exposes the shared balance store.
func (e *Engine) Ledger() ledger.Ledger {
	return e.ledger
}

// History exposes the operation log.
func (e *Engine) History() *history.Log {
	return e.history
}

// Generator exposes the identifier generator.
func (e *Engine) Generator() chain.Generator {
	return e.generator
}

func (e *Engine) latency(k KindConfig, ok bool) int {
	r := k.FailureLatency
	if ok {
		r = k.SuccessLatency
	}
	return e.jitter.IntBetween(r.Min, r.Max)
}

func (e *Engine) networkDelay(ctx context.Context) {
	d := e.jitter.IntBetween(e.cfg.NetworkDelay.Min, e.cfg.NetworkDelay.Max)
	e.pacer.Pause(ctx, time.Duration(d)*time.Millisecond)
}

func (e *Engine) record(kind history.Kind, id string, ts time.Time, params history.Params, outcomes []history.Outcome) {
	e.history.Append(history.Operation{
		ID:        id,
		Kind:      kind,
		Timestamp: ts,
		Params:    params,
		Outcomes:  outcomes,
	})
}

func (e *Engine) notify(ctx context.Context, kind, destination, body string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, notification.Message{Kind: kind, Destination: destination, Body: body}); err != nil {
		e.logger.WarnContext(ctx, "notification failed", "kind", kind, "error", err)
	}
}

func (e *Engine) rejected(ctx context.Context, kind string, err error) error {
	e.metrics.ValidationFailed(kind)
	e.logger.InfoContext(ctx, "request rejected", "kind", kind, "error", err)
	return err
}

func newTxID() string {
	return "tx_" + uuid.NewString()
}

func statusOf(ok bool) string {
	if ok {
		return StatusConfirmed
	}
	return StatusFailed
}
