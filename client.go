package ipapi_go

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"ipapi-go/api"
	"ipapi-go/batch"
	"ipapi-go/rate"
	"ipapi-go/retry"
	"ipapi-go/types"
)

// Client is a client for the ip-api.com geolocation service.
//
// A Client owns (or borrows, see WithHTTPClient) one network session
// and one rate budget. Rate state is shared across all calls on the
// same Client and never across Clients. All methods are safe for
// concurrent use; concurrent batch calls serialize naturally against
// the shared rate budget.
type Client struct {
	httpClient *http.Client
	ownSession bool

	limiter    rate.Limiter
	dispatcher *batch.Dispatcher
	streams    errgroup.Group
}

func NewClient(opts ...ConfigOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	ownSession := false
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: cfg.transport,
			Timeout:   cfg.timeout,
		}
		ownSession = true
	}

	limiter := cfg.limiter
	if limiter == nil {
		if cfg.key != "" {
			// pro tier is not rate limited
			limiter = &rate.NoopLimiter{}
		} else {
			limiter = rate.NewBudgetLimiter(
				rate.WithTTLHold(cfg.ttlHold),
				rate.WithLogger(cfg.logger),
			)
		}
	}

	retryStrategy := cfg.retry
	if retryStrategy == nil {
		retryStrategy = retry.NewFixedRetry(
			retry.WithDelay(cfg.retryDelay),
			retry.WithLogger(cfg.logger),
		)
	}

	dispatcher, err := batch.NewDispatcher(batch.DispatcherConfig{
		Geo:           api.NewGeoApi(cfg.key, httpClient, cfg.logger, cfg.baseUrl, cfg.proUrl),
		Limiter:       limiter,
		Retry:         retryStrategy,
		RetryAttempts: cfg.retryAttempts,
		BatchSize:     cfg.batchSize,
		Defaults: types.Defaults{
			Fields: cfg.fields,
			Lang:   cfg.lang,
		},
		Logger: cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: httpClient,
		ownSession: ownSession,
		limiter:    limiter,
		dispatcher: dispatcher,
	}, nil
}

// Location resolves one query against the single-query JSON endpoint.
// Unlike the batch endpoint, it accepts domain name targets.
// A "fail" status in the returned Location is a normal service answer,
// not an error.
func (c *Client) Location(ctx context.Context, query types.Query) (types.Location, error) {
	return c.dispatcher.One(ctx, query)
}

// LocationBatch resolves all queries and returns results in input
// order. A call of exactly one plain query routes to the single-query
// endpoint; everything else goes through the batch endpoint. Per-item
// problems come back as fail-status locations in their own slots; the
// returned error is reserved for call-fatal conditions (unsupported
// query, retry budget exhausted, surfaced HTTP error).
func (c *Client) LocationBatch(ctx context.Context, queries []types.Query) ([]types.Location, error) {
	return c.dispatcher.Collect(ctx, queries)
}

// LocationStream resolves queries from in incrementally and returns a
// channel that yields one Response per query, in input order. Batches
// are filled one at a time: the producer is not pulled from again until
// the previous batch's results have been consumed, so memory stays
// bounded for arbitrarily large (or infinite) inputs and the rate
// limiter throttles the producer naturally.
//
// The returned channel is closed when in is closed and drained, ctx is
// cancelled, or a call-fatal error was emitted as the final Response.
// Cancelling ctx stops the stream without dispatching further batches.
func (c *Client) LocationStream(ctx context.Context, in <-chan types.Query) <-chan batch.Response {
	out := make(chan batch.Response)
	c.streams.Go(func() error {
		c.dispatcher.Stream(ctx, in, out)
		return nil
	})
	return out
}

// Close waits for in-flight streams to finish and releases the network
// session if the client owns it. Sessions supplied via WithHTTPClient
// are left untouched. Cancel or drain outstanding streams before
// calling Close.
func (c *Client) Close() {
	_ = c.streams.Wait()
	if c.ownSession {
		c.httpClient.CloseIdleConnections()
	}
}
