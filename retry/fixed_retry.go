package retry

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ipapi-go/logger"
)

type fixedRetry struct {
	config config
}

var _ Retry = &fixedRetry{}

// NewFixedRetry returns a strategy that pauses for the same fixed delay
// between attempts. This is the default policy for HTTP exchanges: the
// ip-api service recovers from transient transport failures on its own
// schedule and a growing backoff buys nothing for a short bounded budget.
//
// default delay: 1 second
func NewFixedRetry(opts ...ConfigOption) Retry {
	config := config{
		delay:  1 * time.Second,
		logger: &logger.Noop{},
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &fixedRetry{config}
}

// Do runs fn up to attempts times with a constant pause between runs.
// Examples:
// Do(3, "my-func", func(attempt int) (error, retry.ExitStrategy) {})
// ^ will run the function up to 3 times, sleeping the fixed delay
// between runs.
func (r *fixedRetry) Do(
	attempts int,
	fnName string,
	fn RetriableFn,
) error {
	if attempts < 1 {
		return fmt.Errorf("attempts must be > 0")
	}

	var i int
	var stopped bool

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(r.config.delay),
		uint64(attempts-1),
	)

	err := backoff.Retry(func() error {
		attempt := i
		i++

		err, exitNow := fn(attempt)
		if err == nil {
			return nil
		}
		if exitNow {
			stopped = true
			return backoff.Permanent(err)
		}

		r.config.logger.Warnf(
			"Error during retry %s; retrying. attempt=%d, maxAttempt=%d, delay=%v, error=%v",
			fnName, attempt, attempts, r.config.delay, err,
		)
		return err
	}, policy)

	if err != nil && !stopped {
		r.config.logger.Warnf(
			"Exhausted all retry attempts for %s; giving up. attempt=%d, maxAttempt=%d, error=%v",
			fnName, i, attempts, err,
		)
	}

	return err
}
