package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Component tags a logger with the subsystem it belongs to
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

// SetupLogger opens the configured log file and returns a logger writing
// to it. Every record carries the API base URL it was produced against.
func SetupLogger(cfg *LoggingConfig, baseURL string) (*slog.Logger, error) {
	logPath, err := ExpandHome(cfg.File)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(newHandler(logFile, cfg))
	if baseURL != "" {
		logger = logger.With("api", baseURL)
	}
	return logger, nil
}

func newHandler(w io.Writer, cfg *LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       ParseLogLevel(cfg.Level),
		ReplaceAttr: durationsAsText,
	}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// durationsAsText logs TTLs and preload delays as "1h0m0s" rather than
// JSON nanoseconds.
func durationsAsText(_ []string, a slog.Attr) slog.Attr {
	if d, ok := a.Value.Any().(time.Duration); ok {
		return slog.String(a.Key, d.String())
	}
	return a
}

// ExpandHome resolves a leading ~ against the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ParseLogLevel converts a string log level to slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
