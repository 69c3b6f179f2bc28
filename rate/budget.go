package rate

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ipapi-go/logger"
)

type budgetState struct {
	remaining    int
	hasRemaining bool
	resetAfter   time.Duration
	hasReset     bool
	observedAt   time.Time
}

// BudgetLimiter tracks the free-tier budget per endpoint class from the
// X-Rl / X-Ttl response headers. State is created lazily on the first
// observed response of a class and lives for the client's session.
//
// Policy: an unknown budget never waits (the first request of a class,
// or any request after an optimistic reset). A known remaining count of
// zero suspends the caller for the reset TTL plus a small hold that
// avoids racing the server's own reset boundary, then optimistically
// allows the next request; the next Observe corrects the state.
type BudgetLimiter struct {
	mu      sync.Mutex
	classes map[Class]*budgetState

	hold   time.Duration
	logger logger.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

var _ Limiter = &BudgetLimiter{}

type budgetConfig struct {
	hold   time.Duration
	logger logger.Logger
}

func defaultBudgetConfig() budgetConfig {
	return budgetConfig{
		hold:   3 * time.Second,
		logger: &logger.Noop{},
	}
}

type BudgetOption func(c *budgetConfig)

// WithTTLHold sets the safety margin added on top of the
// server-reported reset TTL before the next request is attempted.
func WithTTLHold(d time.Duration) BudgetOption {
	return func(c *budgetConfig) {
		c.hold = d
	}
}

func WithLogger(log logger.Logger) BudgetOption {
	return func(c *budgetConfig) {
		c.logger = log
	}
}

func NewBudgetLimiter(opts ...BudgetOption) *BudgetLimiter {
	config := defaultBudgetConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &BudgetLimiter{
		classes: make(map[Class]*budgetState),
		hold:    config.hold,
		logger:  config.logger,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

func (b *BudgetLimiter) Observe(class Class, headers http.Header) {
	remaining, hasRemaining := headerInt(headers, HeaderRemaining)
	reset, hasReset := headerInt(headers, HeaderReset)
	if !hasRemaining && !hasReset {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.classes[class]
	if st == nil {
		st = &budgetState{}
		b.classes[class] = st
	}

	if hasRemaining {
		st.remaining = remaining
		st.hasRemaining = true
	}
	if hasReset {
		st.resetAfter = time.Duration(reset) * time.Second
		st.hasReset = true
	}
	st.observedAt = b.now()

	b.logger.Debugf(
		"rate.BudgetLimiter: observed class=%s remaining=%d resetAfter=%v",
		class, st.remaining, st.resetAfter,
	)
}

func (b *BudgetLimiter) Wait(ctx context.Context, class Class) (time.Duration, error) {
	b.mu.Lock()

	st := b.classes[class]
	if st == nil || !st.hasRemaining || st.remaining > 0 {
		b.mu.Unlock()
		return 0, nil
	}

	wait := b.hold
	if st.hasReset {
		wait += st.resetAfter
	}

	// Optimistically treat the budget as reset once the wait elapses.
	// The next Observe corrects the state from real headers.
	st.hasRemaining = false
	b.mu.Unlock()

	b.logger.Warnf(
		"rate.BudgetLimiter: budget for class=%s is exhausted, waiting %v",
		class, wait,
	)

	if err := b.sleep(ctx, wait); err != nil {
		return 0, err
	}
	return wait, nil
}

func headerInt(headers http.Header, key string) (int, bool) {
	raw := headers.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
