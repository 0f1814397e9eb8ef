// Package logging centralizes the structured logger every actor and
// supervisor component pulls a component-tagged child from.
package logging

import (
	"log/slog"
	"os"
)

// New builds the process-wide root logger. Text handler in a terminal,
// JSON when stdout isn't one, matching how the teacher tells dev noise
// apart from what a log aggregator ingests.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if fi, err := os.Stdout.Stat(); err == nil && (fi.Mode()&os.ModeCharDevice) != 0 {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// ForComponent tags every line the returned logger emits with the actor or
// subsystem that owns it, e.g. "indexer", "analyzer", "debug", "project".
func ForComponent(base *slog.Logger, name string) *slog.Logger {
	return base.With("component", name)
}
