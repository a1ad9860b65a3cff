// Package logging defines the minimal structured-logging interface the
// portal components take as a dependency. Implementations can wrap slog,
// zap, zerolog, etc.; the server wires the slog JSON implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "http server listening", "addr", addr)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value
	// pairs (used to tag a component, e.g. With("module", "syncstore")).
	With(args ...any) Logger
}
