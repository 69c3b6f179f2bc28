package rate

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLimiter(slept *[]time.Duration) *BudgetLimiter {
	b := NewBudgetLimiter(WithTTLHold(1 * time.Second))
	b.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return b
}

func headers(rl, ttl string) http.Header {
	h := http.Header{}
	if rl != "" {
		h.Set("X-Rl", rl)
	}
	if ttl != "" {
		h.Set("X-Ttl", ttl)
	}
	return h
}

func Test_Wait_no_state_no_wait(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	waited, err := b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
	assert.Empty(t, slept)
}

func Test_Wait_remaining_positive_no_wait(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	b.Observe(ClassBatch, headers("14", "42"))

	waited, err := b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
	assert.Empty(t, slept)
}

func Test_Wait_remaining_zero_waits_ttl_plus_hold(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	b.Observe(ClassBatch, headers("0", "60"))

	waited, err := b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, 61*time.Second, waited)
	require.Len(t, slept, 1)
	assert.Equal(t, 61*time.Second, slept[0])

	// after the wait the budget is treated as reset: no second wait
	waited, err = b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
	require.Len(t, slept, 1)
}

func Test_Wait_classes_are_independent(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	b.Observe(ClassBatch, headers("0", "10"))
	b.Observe(ClassSingle, headers("44", "60"))

	waited, err := b.Wait(context.Background(), ClassSingle)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)

	waited, err = b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, 11*time.Second, waited)
}

func Test_Observe_missing_headers_leave_state(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	b.Observe(ClassBatch, headers("0", "30"))

	// no headers at all: state must stay untouched, twice in a row
	b.Observe(ClassBatch, http.Header{})
	b.Observe(ClassBatch, http.Header{})

	waited, err := b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, 31*time.Second, waited)
}

func Test_Observe_partial_headers_update_per_field(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	b.Observe(ClassBatch, headers("5", "30"))
	// only the remaining count arrives; TTL keeps its prior value
	b.Observe(ClassBatch, headers("0", ""))

	waited, err := b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, 31*time.Second, waited)
}

func Test_Observe_unparsable_headers_ignored(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	b.Observe(ClassBatch, headers("boo", "-1"))

	waited, err := b.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
}

func Test_Observe_headers_case_insensitive(t *testing.T) {
	var slept []time.Duration
	b := makeLimiter(&slept)

	h := http.Header{}
	h.Set("x-rl", "0")
	h.Set("X-TTL", "9")
	b.Observe(ClassSingle, h)

	waited, err := b.Wait(context.Background(), ClassSingle)
	assert.NoError(t, err)
	assert.Equal(t, 10*time.Second, waited)
}

func Test_Wait_cancelled_context(t *testing.T) {
	b := NewBudgetLimiter(WithTTLHold(1 * time.Second))
	b.Observe(ClassBatch, headers("0", "60"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Wait(ctx, ClassBatch)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Noop_never_waits(t *testing.T) {
	n := &NoopLimiter{}
	n.Observe(ClassBatch, headers("0", "60"))

	waited, err := n.Wait(context.Background(), ClassBatch)
	assert.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
}
