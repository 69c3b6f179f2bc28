package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	STAGE_BEFORE_REQUEST = "before-request"
	STAGE_REQUEST        = "request"
	STAGE_AFTER_REQUEST  = "after-request"

	TYPE_UNKNOWN      = "unknown"
	TYPE_JSON_PARSE   = "json"
	TYPE_REQUEST_PREP = "request-prep"
	TYPE_IO           = "io"
	TYPE_HTTP_STATUS  = "not-ok-http-status"
	TYPE_INVALID_DATA = "invalid-data"
)

// ApiError describes a failed HTTP exchange with the ip-api service.
// Stage tells where the exchange broke down, Type classifies the failure.
// Only Stage==STAGE_REQUEST errors are transport-level and eligible
// for retry; everything else is deterministic.
type ApiError struct {
	Stage          string
	Type           string
	SourceErr      error
	Body           []byte
	HttpStatusCode int
}

var _ error = &ApiError{}

func (e *ApiError) Error() string {
	var err string
	if e.SourceErr != nil {
		err = e.SourceErr.Error()
	} else {
		err = string(e.Body)
	}
	return fmt.Sprintf(
		"http request to ip-api failed during '%s' stage with error type '%s', httpStatus: '%d'; original err: %v",
		e.Stage, e.Type, e.HttpStatusCode, err,
	)
}

func (e *ApiError) Unwrap() error {
	return e.SourceErr
}

// Is method is required by errors.Is() to properly distinguish between
// different types -vs- same pointer to the same type.
// Without it, errors.Is(err, &ApiError{}) returns false:
// ok := errors.Is(errors.Join(&ApiError{}), &ApiError{})
// ^ would be false
func (e *ApiError) Is(other error) bool {
	var err *ApiError
	return errors.As(other, &err) && err != nil
}

// Retriable reports whether the exchange failed at the transport level
// (connection refused/reset, timeout, DNS failure) before any HTTP
// response was received. HTTP-level failures, including 429, are never
// retriable: 429 means the rate budget tracker should have waited, and
// retrying into it would only tighten the loop.
func (e *ApiError) Retriable() bool {
	return e.Stage == STAGE_REQUEST
}

// IsTooManyRequests reports whether err is an ApiError carrying HTTP 429.
func IsTooManyRequests(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.HttpStatusCode == http.StatusTooManyRequests
}

// IsTooLargeBatch reports whether err is an ApiError carrying HTTP 422,
// which the service returns when a batch exceeds its maximum size.
func IsTooLargeBatch(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.HttpStatusCode == http.StatusUnprocessableEntity
}

// IsAuthError reports whether err is an ApiError carrying HTTP 403,
// which the service returns for a missing or invalid API key.
func IsAuthError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.HttpStatusCode == http.StatusForbidden
}

// InvalidQueryError means an input item could not be turned into a
// canonical query, e.g. an absent or empty target.
type InvalidQueryError struct {
	Reason string
}

var _ error = &InvalidQueryError{}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

func (e *InvalidQueryError) Is(other error) bool {
	var err *InvalidQueryError
	return errors.As(other, &err) && err != nil
}

// UnsupportedQueryError means a query is valid for the single-query
// endpoint but not for the batch endpoint. The only such case today is
// a domain name target: the batch endpoint does not resolve names.
type UnsupportedQueryError struct {
	Target string
}

var _ error = &UnsupportedQueryError{}

func (e *UnsupportedQueryError) Error() string {
	return fmt.Sprintf(
		"unsupported query %q: domain names are not supported by the batch endpoint", e.Target,
	)
}

func (e *UnsupportedQueryError) Is(other error) bool {
	var err *UnsupportedQueryError
	return errors.As(other, &err) && err != nil
}

// ConfigurationError means a tuning parameter is out of range,
// e.g. a non-positive batch size or retry attempt count.
type ConfigurationError struct {
	Param  string
	Reason string
}

var _ error = &ConfigurationError{}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Param, e.Reason)
}

func (e *ConfigurationError) Is(other error) bool {
	var err *ConfigurationError
	return errors.As(other, &err) && err != nil
}

// RetryExhaustedError means a single exchange failed at the transport
// level on every allowed attempt. It wraps the last underlying failure.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

var _ error = &RetryExhaustedError{}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf(
		"network exchange failed after %d attempts: %v", e.Attempts, e.LastErr,
	)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}

func (e *RetryExhaustedError) Is(other error) bool {
	var err *RetryExhaustedError
	return errors.As(other, &err) && err != nil
}
