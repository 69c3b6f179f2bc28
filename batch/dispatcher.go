package batch

import (
	"context"
	"fmt"
	"net/http"

	"ipapi-go/api"
	"ipapi-go/errors"
	"ipapi-go/logger"
	"ipapi-go/rate"
	"ipapi-go/retry"
	"ipapi-go/types"
)

// Response is one element of a result stream. Exactly one of the two
// outcomes holds:
//   - Err == nil: Location is the result for Query, in input order.
//     A "fail" status inside Location is a normal service answer
//     (unresolvable target, bad input item), not a client error.
//   - Err != nil: the call failed as a whole (retry budget exhausted,
//     unsupported query in a batch, surfaced HTTP error). It is the
//     final element of the stream.
type Response struct {
	Location types.Location
	Query    types.Query
	Err      error
}

// Dispatcher orchestrates the batch pipeline: it fills one batch at a
// time from the input, waits on the rate budget, performs the exchange
// with bounded retries, observes the budget headers of every completed
// exchange, and re-emits results in strict input order. At most one
// batch is in flight; the producer is not pulled from again until the
// previous batch's results have all been consumed.
type Dispatcher struct {
	geo      *api.Geo
	limiter  rate.Limiter
	retry    retry.Retry
	attempts int
	size     int
	defaults types.Defaults
	logger   logger.Logger
}

type DispatcherConfig struct {
	// Geo performs the HTTP exchanges. Required.
	Geo *api.Geo

	// Limiter gates every exchange. Required; use rate.NoopLimiter
	// for keyed (pro) clients.
	Limiter rate.Limiter

	// Retry re-issues exchanges that failed at the transport level.
	// default: retry.NewFixedRetry()
	Retry retry.Retry

	// RetryAttempts bounds the attempts per exchange.
	// default: 3
	RetryAttempts int

	// BatchSize caps the queries per batch request. The service
	// enforces its own maximum (100 at the time of writing).
	// default: 100
	BatchSize int

	// Defaults are the call-level fields/lang merged into every query.
	Defaults types.Defaults

	// Logger
	// default: logger.Noop
	Logger logger.Logger
}

func NewDispatcher(config DispatcherConfig) (*Dispatcher, error) {
	if config.Geo == nil {
		return nil, &errors.ConfigurationError{
			Param: "Geo", Reason: "must not be nil",
		}
	}
	if config.Limiter == nil {
		return nil, &errors.ConfigurationError{
			Param: "Limiter", Reason: "must not be nil",
		}
	}
	if config.Retry == nil {
		config.Retry = retry.NewFixedRetry()
	}
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 3
	}
	if config.RetryAttempts < 1 {
		return nil, &errors.ConfigurationError{
			Param: "RetryAttempts", Reason: "must be >= 1",
		}
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}
	if config.BatchSize < 1 {
		return nil, &errors.ConfigurationError{
			Param: "BatchSize", Reason: "must be >= 1",
		}
	}
	if config.Logger == nil {
		config.Logger = &logger.Noop{}
	}

	return &Dispatcher{
		geo:      config.Geo,
		limiter:  config.Limiter,
		retry:    config.Retry,
		attempts: config.RetryAttempts,
		size:     config.BatchSize,
		defaults: config.Defaults,
		logger:   config.Logger,
	}, nil
}

// One dispatches a single query against the single-query JSON endpoint,
// which also accepts domain name targets.
func (d *Dispatcher) One(ctx context.Context, query types.Query) (types.Location, error) {
	canonical, err := query.Canonical(d.defaults)
	if err != nil {
		return types.Location{}, err
	}

	var res types.Location
	exchangeErr := d.exchange(ctx, rate.ClassSingle, "api.Geo.Single",
		func(exCtx context.Context) (http.Header, *errors.ApiError) {
			var headers http.Header
			var apiErr *errors.ApiError
			res, headers, apiErr = d.geo.Single(exCtx, canonical)
			return headers, apiErr
		},
	)
	if exchangeErr != nil {
		return types.Location{}, exchangeErr
	}
	return res, nil
}

// Stream consumes queries from in, batch by batch, and emits one
// Response per query to out, in input order. It closes out when in is
// closed, ctx is cancelled, or a call-fatal error occurred (emitted as
// the final Response).
func (d *Dispatcher) Stream(ctx context.Context, in <-chan types.Query, out chan<- Response) {
	defer close(out)

	emit := func(r Response) bool {
		select {
		case <-ctx.Done():
			return false
		case out <- r:
			return true
		}
	}

	for {
		queries, more := d.nextBatch(ctx, in)
		if len(queries) > 0 {
			if !d.dispatchBatch(ctx, queries, emit) {
				return
			}
		}
		if !more {
			return
		}
	}
}

// Collect dispatches all queries and returns the results in input
// order. Per-item failures come back as fail-status locations; only
// call-fatal errors are returned as an error.
//
// A call that resolves to exactly one plain query routes to the
// single-query endpoint, which also accepts domain name targets.
// Everything else goes through the batch endpoint, chunked.
func (d *Dispatcher) Collect(ctx context.Context, queries []types.Query) ([]types.Location, error) {
	if len(queries) == 1 && len(queries[0].Fields) == 0 && queries[0].Lang == "" {
		res, err := d.One(ctx, queries[0])
		if err != nil {
			return nil, err
		}
		return []types.Location{res}, nil
	}

	batches, err := Chunk(queries, d.size)
	if err != nil {
		return nil, err
	}

	// The whole input is known upfront, so an unsupported query aborts
	// the call before the first exchange, not mid-way through.
	for _, q := range queries {
		c, canonErr := q.Canonical(d.defaults)
		if canonErr == nil && c.IsDomain() {
			return nil, &errors.UnsupportedQueryError{Target: c.Query}
		}
	}

	results := make([]types.Location, 0, len(queries))
	var fatal error

	emit := func(r Response) bool {
		if r.Err != nil {
			fatal = r.Err
			return false
		}
		results = append(results, r.Location)
		return true
	}

	for _, b := range batches {
		if !d.dispatchBatch(ctx, b, emit) {
			if fatal == nil {
				fatal = ctx.Err()
			}
			return nil, fatal
		}
	}
	return results, nil
}

// nextBatch pulls up to one batch worth of queries from in. The second
// return is false when the stream should stop pulling: input closed or
// context cancelled. A cancelled context discards the partial batch;
// nothing may be dispatched after cancellation.
func (d *Dispatcher) nextBatch(ctx context.Context, in <-chan types.Query) ([]types.Query, bool) {
	queries := make([]types.Query, 0, d.size)
	for len(queries) < d.size {
		select {
		case <-ctx.Done():
			return nil, false
		case q, ok := <-in:
			if !ok {
				return queries, false
			}
			queries = append(queries, q)
		}
	}
	return queries, true
}

// dispatchBatch performs the full cycle for one batch: normalize,
// rate-wait, exchange with retries, observe budget headers, pair the
// response array positionally with the batch, and emit results in
// order. It returns false when emission stopped or the error was
// call-fatal.
func (d *Dispatcher) dispatchBatch(
	ctx context.Context,
	queries []types.Query,
	emit func(Response) bool,
) bool {
	prefilled := make([]*types.Location, len(queries))
	canonical := make([]types.CanonicalQuery, 0, len(queries))

	for i, q := range queries {
		c, err := q.Canonical(d.defaults)
		if err != nil {
			// One malformed item must not lose the rest of the batch:
			// it becomes a fail-status result in its own slot, the
			// service's own convention for bad targets.
			fail := types.Fail(q.Target, err.Error())
			prefilled[i] = &fail
			continue
		}
		if c.IsDomain() {
			// The batch endpoint does not resolve names. Call-fatal,
			// and guaranteed before any network exchange.
			emit(Response{
				Query: queries[i],
				Err:   &errors.UnsupportedQueryError{Target: c.Query},
			})
			return false
		}
		canonical = append(canonical, c)
	}

	var results []types.Location
	if len(canonical) > 0 {
		exchangeErr := d.exchange(ctx, rate.ClassBatch, "api.Geo.Batch",
			func(exCtx context.Context) (http.Header, *errors.ApiError) {
				var headers http.Header
				var apiErr *errors.ApiError
				results, headers, apiErr = d.geo.Batch(exCtx, canonical, d.defaults.Lang)
				return headers, apiErr
			},
		)
		if exchangeErr != nil {
			emit(Response{Err: exchangeErr})
			return false
		}
		if len(results) != len(canonical) {
			emit(Response{Err: &errors.ApiError{
				Stage: errors.STAGE_AFTER_REQUEST,
				Type:  errors.TYPE_INVALID_DATA,
				SourceErr: fmt.Errorf(
					"batch response has %d results for %d queries",
					len(results), len(canonical),
				),
				HttpStatusCode: http.StatusOK,
			}})
			return false
		}
	}

	next := 0
	for i, q := range queries {
		var res types.Location
		if prefilled[i] != nil {
			res = *prefilled[i]
		} else {
			res = results[next]
			next++
		}
		if !emit(Response{Location: res, Query: q}) {
			return false
		}
	}
	return true
}

// exchange wraps one logical HTTP exchange with rate governance and
// bounded retries. Budget headers are observed on every completed
// exchange regardless of status: they are per-response, not per-result.
// Only transport-level failures are retried; HTTP-level errors,
// including 429, surface immediately.
func (d *Dispatcher) exchange(
	ctx context.Context,
	class rate.Class,
	fnName string,
	fn func(ctx context.Context) (http.Header, *errors.ApiError),
) error {
	var lastErr *errors.ApiError

	retryErr := d.retry.Do(d.attempts, fnName,
		func(attempt int) (error, retry.ExitStrategy) {
			waited, waitErr := d.limiter.Wait(ctx, class)
			if waitErr != nil {
				return waitErr, retry.StopNow
			}
			if waited > 0 {
				d.logger.Infof(
					"batch.Dispatcher: waited %v for the %s rate budget", waited, class,
				)
			}

			headers, apiErr := fn(ctx)
			if headers != nil {
				d.limiter.Observe(class, headers)
			}
			if apiErr == nil {
				lastErr = nil
				return nil, retry.StopNow
			}

			lastErr = apiErr
			if apiErr.Retriable() && ctx.Err() == nil {
				return apiErr, retry.Continue
			}
			return apiErr, retry.StopNow
		},
	)
	if retryErr == nil {
		return nil
	}
	if lastErr != nil && lastErr.Retriable() && ctx.Err() == nil {
		return &errors.RetryExhaustedError{
			Attempts: d.attempts,
			LastErr:  retryErr,
		}
	}
	return retryErr
}
