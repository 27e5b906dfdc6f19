package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bundler-sim/bundler_sim/internal/chance"
)

func TestCreateTokenRequiresFields(t *testing.T) {
	script := chance.NewScript(true)
	f := newFixture(t, script)

	for _, req := range []TokenRequest{
		{Symbol: "DOGE", Description: "d"},
		{Name: "Doge", Description: "d"},
		{Name: "Doge", Symbol: "DOGE"},
		{Name: "  ", Symbol: "DOGE", Description: "d"},
	} {
		_, err := f.engine.CreateToken(context.Background(), req)
		require.ErrorIs(t, err, ErrTokenFieldsRequired)
	}
	assert.Empty(t, script.Asked())
	assert.Empty(t, f.pacer.pauses)
}

func TestCreateTokenSuccess(t *testing.T) {
	f := newFixture(t, chance.Always(true))

	tok, err := f.engine.CreateToken(context.Background(), TokenRequest{Name: "Doge", Symbol: "DOGE", Description: "much wow"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.Len(t, tok.Address, 42)
	assert.Equal(t, "pancakeswap", tok.Platform)
	assert.Equal(t, TokenStatusCreated, tok.Status)
	assert.Equal(t, fixedNow, tok.CreatedAt)
	assert.Equal(t, []time.Duration{time.Second}, f.pacer.pauses)
}

func TestCreateTokenPlatformFailure(t *testing.T) {
	f := newFixture(t, chance.Always(false))

	_, err := f.engine.CreateToken(context.Background(), TokenRequest{Name: "Doge", Symbol: "DOGE", Description: "d", Platform: "pump.fun"})
	require.ErrorIs(t, err, ErrTokenPlatform)
}
