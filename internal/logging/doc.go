// Package logging assembles the structured slog loggers shared by the
// renderer, the CLI and the background render workers.
//
// It owns the console and JSON handlers, resolves levels and output files
// from configuration, and exposes context helpers so composer stages tag
// their log lines with render IDs, reel IDs, stages and correlation IDs
// without threading loggers by hand. NewNop returns a logger for tests and
// wiring code that has nothing to report.
package logging
