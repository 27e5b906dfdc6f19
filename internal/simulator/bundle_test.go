package simulator

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bundler-sim/bundler_sim/internal/chance"
	"github.com/bundler-sim/bundler_sim/internal/history"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
)

func TestExecuteBundleOneOutcomePerWallet(t *testing.T) {
	f := newFixture(t, chance.NewScript(true, false, true, true, false))
	wallets := []string{"a", "b", "c", "d", "e"}

	res, err := f.engine.ExecuteBundle(context.Background(), BundleRequest{Wallets: wallets})
	require.NoError(t, err)

	require.Len(t, res.Transactions, len(wallets))
	assert.Equal(t, len(wallets), res.TotalTransactions)
	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, BundleBuy, res.BundleType)

	confirmed := 0
	for i, tx := range res.Transactions {
		assert.Equal(t, wallets[i], tx.Wallet)
		if tx.Status == StatusConfirmed {
			confirmed++
			assert.NotEmpty(t, tx.Signature)
			assert.Equal(t, 0.001, tx.Fee)
			assert.Equal(t, 200, tx.LatencyMs)
		} else {
			assert.Empty(t, tx.Signature)
			assert.Equal(t, 0.0, tx.Fee)
			assert.Equal(t, "Transaction failed - simulated error", tx.Error)
			assert.Equal(t, 100, tx.LatencyMs)
		}
		assert.Equal(t, 0.1, tx.Amount)
	}
	assert.Equal(t, res.SuccessCount, confirmed)
	assert.InDelta(t, 3*(0.1+0.001), res.TotalCost, 1e-9)
	assert.Equal(t, 1000, res.ExecutionTimeMs)
}

func TestExecuteBundleLeavesLedgerAlone(t *testing.T) {
	f := newFixture(t, chance.Always(true))
	ledger.SeedBalance(f.ledger, "a", 1)

	_, err := f.engine.ExecuteBundle(context.Background(), BundleRequest{Type: "sell", Wallets: []string{"a", "b"}})
	require.NoError(t, err)

	bal, _ := f.ledger.Balance(context.Background(), "a")
	assert.Equal(t, 1.0, bal)
	assert.False(t, ledger.Known(f.ledger, "b"))
	assert.Equal(t, 0, f.history.Len())
}

func TestExecuteBundleRecordsWhenEnabled(t *testing.T) {
	f := newFixture(t, chance.Always(true), func(c *Config) { c.RecordBundles = true })

	res, err := f.engine.ExecuteBundle(context.Background(), BundleRequest{Type: "volume", Wallets: []string{"a"}})
	require.NoError(t, err)

	op, err := f.history.Get(res.BundleID)
	require.NoError(t, err)
	assert.Equal(t, history.KindBundleExecution, op.Kind)
	assert.Equal(t, "volume", op.Params.BundleType)
	assert.Equal(t, res.Transactions, op.Outcomes)
}

func TestExecuteBundleSettings(t *testing.T) {
	script := chance.NewScript(true)
	f := newFixture(t, script)

	res, err := f.engine.ExecuteBundle(context.Background(), BundleRequest{
		Type:            "distribute",
		Wallets:         []string{"a", "b"},
		AmountPerWallet: ptr(2.5),
		Settings: BundleSettings{
			PriorityFee:        ptr(0.01),
			SuccessProbability: ptr(0.7),
			SlippagePercent:    ptr(1.0),
			MEVProtection:      true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.7}, script.Asked())
	assert.InDelta(t, 2*(2.5+0.01), res.TotalCost, 1e-9)
	assert.Equal(t, 0.01, res.PriorityFee)
	assert.Equal(t, 2.5, res.AmountPerWallet)
}

func TestExecuteBundleRejectsBadInput(t *testing.T) {
	script := chance.NewScript(true)
	f := newFixture(t, script)
	ctx := context.Background()

	_, err := f.engine.ExecuteBundle(ctx, BundleRequest{Type: "snipe", Wallets: []string{"a"}})
	require.ErrorIs(t, err, ErrUnknownBundleType)

	for _, s := range []BundleSettings{
		{PriorityFee: ptr(-1.0)},
		{SuccessProbability: ptr(1.2)},
		{SuccessProbability: ptr(-0.1)},
		{StaggerDelayMs: ptr(-5.0)},
		{SlippagePercent: ptr(-1.0)},
		{PriorityFee: ptr(math.NaN())},
		{PriorityFee: ptr(math.Inf(1))},
		{SuccessProbability: ptr(math.NaN())},
		{StaggerDelayMs: ptr(math.Inf(1))},
		{SlippagePercent: ptr(math.NaN())},
	} {
		_, err := f.engine.ExecuteBundle(ctx, BundleRequest{Wallets: []string{"a"}, Settings: s})
		require.ErrorIs(t, err, ErrInvalidSettings)
	}

	for _, amount := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err = f.engine.ExecuteBundle(ctx, BundleRequest{Wallets: []string{"a"}, AmountPerWallet: ptr(amount)})
		require.ErrorIs(t, err, ErrInvalidSettings)
	}
	assert.Empty(t, script.Asked())
}

func TestExecuteBundleStealthModeStaggers(t *testing.T) {
	f := newFixture(t, chance.Always(true))

	_, err := f.engine.ExecuteBundle(context.Background(), BundleRequest{
		Wallets:  []string{"a", "b", "c"},
		Settings: BundleSettings{StealthMode: true, StaggerDelayMs: ptr(250.0)},
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, f.pacer.intervals)
	assert.Equal(t, 3, f.pacer.spaced)

	f2 := newFixture(t, chance.Always(true))
	_, err = f2.engine.ExecuteBundle(context.Background(), BundleRequest{Wallets: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Empty(t, f2.pacer.intervals)
}

func TestExecuteBundleEmptyWallets(t *testing.T) {
	f := newFixture(t, chance.Always(true))

	res, err := f.engine.ExecuteBundle(context.Background(), BundleRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 0.0, res.TotalCost)
}

func TestParseBundleType(t *testing.T) {
	for in, want := range map[string]BundleType{
		"":           BundleBuy,
		"BUY":        BundleBuy,
		"sell":       BundleSell,
		"distribute": BundleDistribute,
		" volume ":   BundleVolume,
	} {
		got, err := ParseBundleType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestRealPacerSpacerReleasesFirstCallImmediately(t *testing.T) {
	wait := RealPacer{}.Spacer(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	wait(ctx)
	assert.Less(t, time.Since(start), 20*time.Millisecond)

	wait(ctx)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
