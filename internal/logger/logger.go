// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New builds a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Setup configures the global logger and returns it.
func Setup(w io.Writer, level, format string) *slog.Logger {
	l := New(w, level, format)
	slog.SetDefault(l)
	return l
}

// WithComponent returns a logger with a component field
func WithComponent(component string) *slog.Logger {
	return slog.With("component", component)
}
