// Package logging assembles structured slog loggers and formatting helpers used
// across roster packages.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, tags every record with the invocation's session ID, and exposes
// component loggers plus WARN/ERROR helpers that enforce event_type and
// error_hint fields. NewNop provides a silent logger for tests and wiring code
// that cannot fail.
package logging
