package config

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger for the given runtime environment, as
// loaded into Config.Environment. Production emits JSON to stdout; any other
// environment gets a text handler. LOG_LEVEL selects the minimum level:
// debug, info, warn, error (default info).
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(os.Getenv("LOG_LEVEL"))}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
