package logger

// Logger provides a standardized logging interface for the ipapi-go client.
// It defines methods for different log levels (Debug, Info, Warn, Error)
// so users can plug in their preferred logging implementation
// (e.g., logrus, zap, standard log) or use the provided Noop logger
// to disable logging entirely.
//
// The logger is used throughout the client for:
// - API request/response debugging
// - Rate-limit waits (these are informational, never errors)
// - Retry attempt tracking
// - Connection and transport issues
//
// Usage Example:
//
//	// Using with a custom logger implementation
//	client := ipapi_go.NewClient(ipapi_go.WithLogger(myLogger))
//
//	// Disable logging entirely (the default)
//	client := ipapi_go.NewClient(ipapi_go.WithLogger(&logger.Noop{}))
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
