// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLogLevel overrides the level when no flag is given.
const EnvLogLevel = "NEXITHIUM_LOG_LEVEL"

// New returns a charmbracelet logger writing to w at the named level.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           ParseLevel(level),
	})
	return logger
}

// Setup routes slog's default logger through a charmbracelet handler on
// stderr. verbose forces debug level; otherwise EnvLogLevel is consulted.
func Setup(verbose bool) *log.Logger {
	level := strings.ToLower(os.Getenv(EnvLogLevel))
	if verbose {
		level = "debug"
	}
	logger := New(os.Stderr, level)
	slog.SetDefault(slog.New(logger))
	return logger
}

// ParseLevel converts a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
