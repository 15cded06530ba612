package cmn

import (
	"io"
	"log/slog"
)

// LoggerNew builds the process logger. Raw output switches to json lines,
// verbose lowers the level to debug.
func LoggerNew(w io.Writer, verbose, raw bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if raw {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
