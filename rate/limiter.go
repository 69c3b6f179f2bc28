package rate

import (
	"context"
	"net/http"
	"time"
)

// Class identifies one of the service's independently rate-limited
// endpoint pools. The single-query JSON endpoint and the batch endpoint
// carry separate budgets and must never be mixed.
type Class string

const (
	ClassSingle Class = "single"
	ClassBatch  Class = "batch"
)

// Response headers the service uses to communicate the current budget.
// Header lookup is case-insensitive (http.Header canonicalizes keys).
const (
	HeaderRemaining = "X-Rl"
	HeaderReset     = "X-Ttl"
)

// Limiter tracks the server-communicated rate budget and throttles
// outgoing requests so the service never has to answer 429.
//
// Observe is called after every completed HTTP exchange, successful or
// not: the budget headers are per-response, not per-result. Wait is
// called before every exchange of a given class and blocks until the
// budget allows the request.
//
// Example usage:
//
//	waited, err := limiter.Wait(ctx, rate.ClassBatch)
//	if err != nil {
//	    return err // context cancelled during the wait
//	}
//	res, err := send(req)
//	limiter.Observe(rate.ClassBatch, res.Header)
type Limiter interface {
	// Observe updates the budget state for class from response headers.
	// A missing or unparsable header leaves the corresponding part of
	// the prior state untouched; it is never treated as zero.
	Observe(class Class, headers http.Header)

	// Wait suspends the caller until a request of the given class may
	// be issued, returning how long it waited. It returns early with
	// the context error when ctx is cancelled during the wait.
	Wait(ctx context.Context, class Class) (time.Duration, error)
}
