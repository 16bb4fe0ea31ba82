// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// InitSlog builds the process logger. When stderr is a terminal it uses a
// human-readable text format; otherwise it emits JSON.
func InitSlog(level string, devMode bool) *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level, devMode)
}

func newLogger(w io.Writer, text bool, level string, devMode bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: devMode,
		Level:     toLogLevel(level),
	}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func toLogLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
