// Package ecslog provides the package-level structured logger used across
// the ecs packages. The donor game has no logging library of its own, so
// this wraps go.uber.org/zap — the logging dependency already present in
// the rest of the retrieval pack (AKJUS-bsc-erigon) — behind the same
// "replaceable package-level singleton" shape the donor uses for its own
// package-level config helpers (types.go's DefaultWorldConfig, etc.).
package ecslog

import "go.uber.org/zap"

var logger *zap.Logger = zap.NewNop()

// SetLogger replaces the package-level logger. Passing nil restores the
// no-op logger. Intended to be called once at process start-up by the host
// application; the registry itself never constructs a logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// L returns the current package-level logger.
func L() *zap.Logger { return logger }

// Debug logs a debug-level message with the given zap fields.
func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }

// Warn logs a warn-level message with the given zap fields. Used for the
// UB-but-tolerated paths the spec documents rather than forbids: re-entrant
// component additions during remove_all, and Respect calls on large sets.
func Warn(msg string, fields ...zap.Field) { logger.Warn(msg, fields...) }
