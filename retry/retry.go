package retry

import (
	"time"

	"ipapi-go/logger"
)

// Retry provides a standardized interface for implementing retry logic
// with different strategies. It allows operations to be retried, with
// configurable retry policies such as fixed delays, exponential backoff
// and maximum attempts.
//
// The client uses it for one thing: re-issuing an HTTP exchange that
// failed at the transport level. Rate-limit waiting is NOT retrying and
// is handled separately by rate.Limiter; a retry strategy must never be
// used to absorb 429 responses.
//
// Usage Example:
//
//	r := retry.NewFixedRetry(
//	    retry.WithDelay(time.Second),
//	    retry.WithLogger(myLogger),
//	)
//
//	err := r.Do(3, "api-call", func(attempt int) (error, retry.ExitStrategy) {
//	    res, err := send()
//	    if err != nil {
//	        if isTransportError(err) {
//	            return err, retry.Continue // retry this error
//	        }
//	        return err, retry.StopNow // don't retry this error
//	    }
//	    return nil, retry.StopNow // success, stop retrying
//	})
//
// The RetriableFn function receives the current attempt number (0-based)
// and returns an error and an ExitStrategy. The ExitStrategy determines
// whether to continue retrying (Continue) or stop immediately (StopNow),
// regardless of remaining attempts.
//
// NOTE: if attempts is < 1, Do returns an error without calling fn.
type Retry interface {
	Do(attempts int, fnName string, fn RetriableFn) error
}

type RetriableFn func(attempt int) (error, ExitStrategy)

type ExitStrategy bool

var StopNow ExitStrategy = true
var Continue ExitStrategy = false

type config struct {
	delay  time.Duration
	logger logger.Logger
}

type ConfigOption func(c *config)

func WithLogger(log logger.Logger) ConfigOption {
	return func(c *config) {
		c.logger = log
	}
}

// WithDelay sets the delay between attempts: the fixed pause for
// NewFixedRetry, the initial pause for NewExponentialRetry.
func WithDelay(d time.Duration) ConfigOption {
	return func(c *config) {
		c.delay = d
	}
}
