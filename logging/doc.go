// Package logging provides a minimal logging interface and adapters for actormesh.
//
// The Logger interface defines the leveled methods (Debug, Info, Warn, Error)
// that agents, the engine and the façade use for observability. This package
// includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", os.Stderr)
//	a := actor.Spawn(uuid.Nil, "echo", handler, func(o *actor.Options) { o.Logger = logger })
//
// Arguments follow slog's alternating key/value convention.
package logging
