// Package logging provides a minimal logging interface and adapters for the
// training adapter.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) used by the trainer for progress messages, swallowed handler
// failures and lifecycle events. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - TrainLogger with training-domain context helpers
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
