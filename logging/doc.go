// Package logging provides a minimal logging interface and adapters for autopsy.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that interceptors, sessions and hosts use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - AutopsyLogger with helpers for tracked calls, misfires and report runs
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	s := session.GetOrCreate(func(o *session.Options) { o.Logger = logger })
package logging
