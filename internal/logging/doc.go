// Package logging builds the slog loggers used across the binary.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Level and format come from
// configuration; Nop returns a discard logger so library code never has to
// nil-check.
package logging
