// Package testutil provides small helpers shared across test packages.
package testutil

import "log/slog"

// DiscardLogger returns a logger that drops everything. Handlers and
// services require a non-nil logger; tests that don't assert on log output
// use this.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
