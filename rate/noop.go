package rate

import (
	"context"
	"net/http"
	"time"
)

// NoopLimiter never waits and tracks nothing. It is the limiter for
// clients configured with an API key: the pro tier is not rate limited.
type NoopLimiter struct {
}

var _ Limiter = &NoopLimiter{}

func (n NoopLimiter) Observe(_ Class, _ http.Header) {
}

func (n NoopLimiter) Wait(_ context.Context, _ Class) (time.Duration, error) {
	return 0, nil
}
