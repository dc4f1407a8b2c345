// Package logging assembles the slog loggers used by obscuritext.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// run-scoped context fields (run id and run name) that tag every line a sweep
// emits. A no-op logger is provided for tests and wiring code that cannot fail.
package logging
