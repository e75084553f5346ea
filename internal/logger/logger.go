// Package logger configures structured logging for gardenplot.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls handler selection and verbosity.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text", "json"
}

// New builds a slog.Logger writing to w according to cfg. Unknown levels
// fall back to info, unknown formats to text.
func New(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Default returns a text logger at info level writing to stderr.
func Default() *slog.Logger {
	return New(Config{Level: "info"}, os.Stderr)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
