// Package logging assembles structured slog loggers and formatting helpers used
// across pdbfetch.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so every record emitted during an
// invocation carries the run identifier. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
