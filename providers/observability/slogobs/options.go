package slogobs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Option configures the observer created by [New].
type Option func(*config)

type config struct {
	logger *slog.Logger
	level  slog.Level
	output io.Writer
	json   bool
}

// WithLogger supplies an existing slog.Logger. When set, the level, output,
// and format options are ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithLevel sets the minimum log level. Defaults to [slog.LevelInfo],
// or the value of the WIKIREACT_LOG_LEVEL environment variable.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithOutput sets the destination writer. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithJSON switches output to JSON records instead of logfmt-style text.
func WithJSON() Option {
	return func(c *config) { c.json = true }
}

func applyOptions(opts ...Option) config {
	cfg := config{
		level:  levelFromEnv(),
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// levelFromEnv reads WIKIREACT_LOG_LEVEL, defaulting to INFO.
func levelFromEnv() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(os.Getenv("WIKIREACT_LOG_LEVEL"))) {
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
