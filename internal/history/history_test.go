package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAppendAndList(t *testing.T) {
	log := NewLog()
	require.Equal(t, 0, log.Len())

	log.Append(Operation{ID: "op-1", Kind: KindFunding, Timestamp: time.Now()})
	log.Append(Operation{ID: "op-2", Kind: KindWithdrawal, Timestamp: time.Now()})

	ops := log.List()
	require.Len(t, ops, 2)
	assert.Equal(t, "op-1", ops[0].ID)
	assert.Equal(t, "op-2", ops[1].ID)
}

func TestLogListIsSnapshot(t *testing.T) {
	log := NewLog()
	log.Append(Operation{
		ID:       "op-1",
		Kind:     KindFunding,
		Params:   Params{Wallets: []string{"a"}, WithdrawalAmounts: map[string]float64{"a": 1}},
		Outcomes: []Outcome{{Wallet: "a", Status: "confirmed"}},
	})

	ops := log.List()
	ops[0].Outcomes[0].Status = "tampered"
	ops[0].Params.Wallets[0] = "b"
	ops[0].Params.WithdrawalAmounts["a"] = 99

	again, err := log.Get("op-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", again.Outcomes[0].Status)
	assert.Equal(t, "a", again.Params.Wallets[0])
	assert.Equal(t, 1.0, again.Params.WithdrawalAmounts["a"])
}

func TestLogAppendCopiesInput(t *testing.T) {
	log := NewLog()
	outcomes := []Outcome{{Wallet: "a", Status: "confirmed"}}
	log.Append(Operation{ID: "op-1", Outcomes: outcomes})
	outcomes[0].Status = "failed"

	op, err := log.Get("op-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", op.Outcomes[0].Status)
}

func TestLogGetUnknown(t *testing.T) {
	_, err := NewLog().Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogConcurrentAppends(t *testing.T) {
	log := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Append(Operation{ID: fmt.Sprintf("op-%d", i), Kind: KindFunding})
			_ = log.List()
		}(i)
	}
	wg.Wait()

	require.Equal(t, 100, log.Len())
	for i := 0; i < 100; i++ {
		_, err := log.Get(fmt.Sprintf("op-%d", i))
		require.NoError(t, err)
	}
}
