// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) used by the round executor, moderation gate, orchestrator and
// HTTP server. This package includes:
//
//   - Logger interface for dependency injection
//   - SessionLogger on log/slog with component/session/advisor context and
//     helpers for model calls and rounds
//   - Component and Advisor, which tag any Logger that supports it
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	hs, err := hotseat.New(ctx, func(o *hotseat.Options) { o.Logger = logger })
//
// Arguments after the message are slog key/value pairs.
package logging
