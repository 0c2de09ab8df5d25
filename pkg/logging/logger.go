package logging

import (
	"log/slog"
	"os"
)

// Logger is a thin wrapper around slog so callers don't depend on the
// handler setup.
type Logger struct {
	*slog.Logger
}

// New builds a JSON logger writing to stdout at the given level.
func New(level string) *Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return &Logger{Logger: slog.New(handler)}
}

// Default returns an info-level logger.
func Default() *Logger {
	return New("info")
}
