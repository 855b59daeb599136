// Package logger configures structured logging for the CLI.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer    io.Writer
	Format    string
	Level     slog.Level
	AddSource bool
}

// New creates a logger. Output goes to stderr unless Writer is set, so that
// reports printed on stdout stay clean.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		h = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		h = slog.NewTextHandler(cfg.Writer, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel converts a string to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OrDefault returns l's slog.Logger, or slog.Default() when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
