package ipapi_go

import (
	"net/http"
	"time"

	"ipapi-go/logger"
	"ipapi-go/rate"
	"ipapi-go/retry"
)

type config struct {
	// transport specifies the HTTP transport mechanism
	// for making requests.
	// It's useful for mocking or if users
	// want to add extra logging, headers, etc.
	// Ignored when an external session is supplied via WithHTTPClient.
	// default: http.DefaultTransport
	transport http.RoundTripper

	// timeout sets the maximum duration for HTTP requests
	// before they are cancelled.
	// Ignored when an external session is supplied via WithHTTPClient.
	// default: 10 seconds
	timeout time.Duration

	// httpClient is an externally owned session. The client reuses it
	// and never releases it on Close.
	// default: nil (the client creates and owns its session)
	httpClient *http.Client

	// logger provides logging functionality for all internal
	// client operations
	// default: logger.Noop
	logger logger.Logger

	// key is the ip-api.com API key. Setting it routes all requests to
	// the pro host over HTTPS and disables rate governance (the pro
	// tier is not rate limited).
	// default: "" (free tier)
	key string

	// fields is the call-level response field selection merged into
	// every query that doesn't carry its own.
	// default: nil (service default field set)
	fields []string

	// lang is the call-level response language merged into every query
	// that doesn't carry its own.
	// default: "" (service default, en)
	lang string

	// baseUrl is the free-tier host.
	// default: http://ip-api.com
	baseUrl string

	// proUrl is the pro host used when a key is set. Must be HTTPS.
	// default: https://pro.ip-api.com
	proUrl string

	// batchSize caps the queries per batch request. The service
	// defines the real maximum (100 at the time of writing) and may
	// change it.
	// default: 100
	batchSize int

	// retryAttempts bounds the attempts per HTTP exchange.
	// default: 3
	retryAttempts int

	// retryDelay is the fixed pause between attempts.
	// default: 1 second
	retryDelay time.Duration

	// retry overrides the retry strategy entirely; retryDelay is then
	// ignored.
	// default: retry.NewFixedRetry with retryDelay
	retry retry.Retry

	// limiter overrides the rate limiter entirely.
	// default: rate.NewBudgetLimiter, or rate.NoopLimiter with a key
	limiter rate.Limiter

	// ttlHold is the safety margin added to the server-reported reset
	// TTL when the free-tier budget runs out.
	// default: 3 seconds
	ttlHold time.Duration
}

func defaultConfig() *config {
	return &config{
		transport:     http.DefaultTransport,
		timeout:       10 * time.Second,
		logger:        logger.Noop{},
		batchSize:     100,
		retryAttempts: 3,
		retryDelay:    1 * time.Second,
		ttlHold:       3 * time.Second,
	}
}

type ConfigOption func(c *config)

func WithTransport(transport http.RoundTripper) ConfigOption {
	return func(c *config) {
		c.transport = transport
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithHTTPClient supplies an externally owned session. The client
// reuses it for every exchange and will not release it on Close.
func WithHTTPClient(httpClient *http.Client) ConfigOption {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger logger.Logger) ConfigOption {
	return func(c *config) {
		c.logger = logger
	}
}

func WithKey(key string) ConfigOption {
	return func(c *config) {
		c.key = key
	}
}

func WithFields(fields ...string) ConfigOption {
	return func(c *config) {
		c.fields = fields
	}
}

func WithLang(lang string) ConfigOption {
	return func(c *config) {
		c.lang = lang
	}
}

func WithBaseUrl(baseUrl string) ConfigOption {
	return func(c *config) {
		c.baseUrl = baseUrl
	}
}

func WithProUrl(proUrl string) ConfigOption {
	return func(c *config) {
		c.proUrl = proUrl
	}
}

func WithBatchSize(batchSize int) ConfigOption {
	return func(c *config) {
		c.batchSize = batchSize
	}
}

func WithRetryAttempts(attempts int) ConfigOption {
	return func(c *config) {
		c.retryAttempts = attempts
	}
}

func WithRetryDelay(delay time.Duration) ConfigOption {
	return func(c *config) {
		c.retryDelay = delay
	}
}

func WithRetry(retry retry.Retry) ConfigOption {
	return func(c *config) {
		c.retry = retry
	}
}

func WithRateLimiter(limiter rate.Limiter) ConfigOption {
	return func(c *config) {
		c.limiter = limiter
	}
}

func WithTTLHold(hold time.Duration) ConfigOption {
	return func(c *config) {
		c.ttlHold = hold
	}
}
