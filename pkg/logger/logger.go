package logger

import (
	"log/slog"
	"os"
	"strings"
)

// HandlerFunc builds the slog.Handler used by New for the resolved level.
type HandlerFunc func(level slog.Level) slog.Handler

func New(level string, handler HandlerFunc) *slog.Logger {
	h := handler(getSlogLevel(level))
	return slog.New(h)
}

// ForFormat picks the handler for a LOGFORMAT value; anything but "text" gets Cloud Run JSON.
func ForFormat(format string) HandlerFunc {
	if strings.EqualFold(format, "text") {
		return NewTextHandler
	}
	return NewCloudRunHandler
}

func NewTextHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// ---- Helpers ----
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
