// Package logging assembles structured slog loggers and formatting helpers used
// across rawpack.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing so every component emits the same field names (component,
// run_id, source, target, stage, outcome). The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
