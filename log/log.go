// Package log builds the structured logger used across scribe.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output format.
type Format string

const (
	// FormatJSON outputs one JSON object per line.
	FormatJSON Format = "json"
	// FormatText outputs logfmt-style key=value lines.
	FormatText Format = "text"
)

// Standard field keys.
const (
	RunIDKey    = "run_id"
	StepKey     = "step"
	ModelKey    = "model"
	ProviderKey = "provider"
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error. Default info.
	Level string

	// Format selects the handler. Default text.
	Format Format

	// Output is the destination. Default os.Stderr.
	Output io.Writer

	// AddSource adds file:line to every record.
	AddSource bool
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatText,
		Output: os.Stderr,
	}
}

// FromEnv builds a Config from environment lookups. getenv is usually
// os.Getenv; it is a parameter so that only main touches the environment.
//
//   - SCRIBE_DEBUG: true or 1 enables debug level and source locations
//     and takes precedence over SCRIBE_LOG_LEVEL
//   - SCRIBE_LOG_LEVEL: debug, info, warn, error
//   - SCRIBE_LOG_FORMAT: json, text
func FromEnv(getenv func(string) string) Config {
	cfg := DefaultConfig()

	switch getenv("SCRIBE_DEBUG") {
	case "true", "1":
		cfg.Level = "debug"
		cfg.AddSource = true
	default:
		if level := getenv("SCRIBE_LOG_LEVEL"); level != "" {
			cfg.Level = strings.ToLower(level)
		}
	}

	if format := getenv("SCRIBE_LOG_FORMAT"); format != "" {
		cfg.Format = Format(strings.ToLower(format))
	}
	return cfg
}

// New creates a logger from cfg. Unknown levels fall back to info and
// unknown formats to text.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	switch cfg.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
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

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithProvider scopes logger to a generation backend.
func WithProvider(logger *slog.Logger, provider string) *slog.Logger {
	return logger.With(slog.String(ProviderKey, provider))
}
