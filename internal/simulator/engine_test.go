package simulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bundler-sim/bundler_sim/internal/chain"
	"github.com/bundler-sim/bundler_sim/internal/chance"
	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
	"github.com/bundler-sim/bundler_sim/internal/logging"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingPacer struct {
	mu        sync.Mutex
	pauses    []time.Duration
	intervals []time.Duration
	spaced    int
}

func (p *recordingPacer) Pause(_ context.Context, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses = append(p.pauses, d)
}

func (p *recordingPacer) Spacer(interval time.Duration) func(context.Context) {
	p.mu.Lock()
	p.intervals = append(p.intervals, interval)
	p.mu.Unlock()
	return func(context.Context) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.spaced++
	}
}

type fixture struct {
	engine  *Engine
	ledger  ledger.Ledger
	history *history.Log
	pacer   *recordingPacer
}

func newFixture(t *testing.T, source chance.Source, mutate ...func(*Config)) fixture {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	gen, err := chain.NewGenerator(chain.VariantEVM)
	require.NoError(t, err)

	l := ledger.NewInMemory()
	h := history.NewLog()
	p := &recordingPacer{}
	e, err := New(cfg, Deps{
		Ledger:    l,
		History:   h,
		Generator: gen,
		Source:    source,
		Jitter:    chance.Floor{},
		Pacer:     p,
		Logger:    logging.Discard(),
		Clock:     func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return fixture{engine: e, ledger: l, history: h, pacer: p}
}

func ptr[T any](v T) *T { return &v }

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(DefaultConfig(), Deps{})
	require.Error(t, err)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bundle.SuccessProbability = 1.5
	gen, _ := chain.NewGenerator(chain.VariantEVM)
	_, err := New(cfg, Deps{Ledger: ledger.NewInMemory(), History: history.NewLog(), Generator: gen})
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.NetworkDelay = Range{Min: 10, Max: 5}
	_, err = New(cfg, Deps{Ledger: ledger.NewInMemory(), History: history.NewLog(), Generator: gen})
	require.Error(t, err)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrTreasuryRequired))
	_, err := ParseBundleType("snipe")
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrTokenPlatform))
}
