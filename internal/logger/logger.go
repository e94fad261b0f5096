// Package logger provides the process-wide structured logger.
// Log output goes to stderr so the changelog and tag listings on stdout stay clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the global logger instance used throughout taglog.
var Logger *log.Logger

func init() {
	Logger = newLogger(os.Stderr, log.InfoLevel)
}

// Configure replaces the global logger with one writing to w at the named level.
// An empty level falls back to TAGLOG_LOG_LEVEL and then to "info".
func Configure(level string, w io.Writer) error {
	if level == "" {
		level = os.Getenv("TAGLOG_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, lvl)
	return nil
}

// ParseLevel converts a level name to a log.Level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", level)
	}
}

func newLogger(w io.Writer, lvl log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: "taglog"})
	l.SetTimeFormat("")
	l.SetLevel(lvl)
	l.SetStyles(styles())
	return l
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("214"))
	s.Keys["tag"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	s.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	s.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	return s
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs an error message with optional key-value pairs and exits with status 1.
func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}
