// Package log provides helpers for creating a configured slog.Logger.
//
// Interactive runs get human readable text; when the output is redirected,
// for example in CI, records are written as JSON lines.
package log

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger builds a slog.Logger writing to w at the given level.
func SetupLogger(logLevel string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
