package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gigmarket-payments/internal/config"
)

// NewLogger builds the JSON logger both binaries write to stdout. The level
// comes from config; an unknown level falls back to info. Source locations
// are only added at debug level, they are noise in production output.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	logger := slog.New(handler)
	logger.Info("Logger initialized", "level", level)

	return logger
}
