// ABOUTME: Structured logger construction for the routines tool.
// ABOUTME: Builds a charmbracelet/log logger from a level name.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the named level.
// Unknown level names fall back to warn.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Prefix:          "routines",
		ReportTimestamp: true,
	})
}

// Discard creates a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
