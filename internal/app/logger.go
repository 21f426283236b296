package app

import (
	"io"
	"log/slog"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the app's isolated logger; the process-global default is
// left alone. An unrecognized level falls back to warn, matching the CLI
// flag default.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	lvl, ok := logLevels[level]
	if !ok {
		lvl = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
