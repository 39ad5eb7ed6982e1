// Package logger builds the zerolog logger shared by the service layers.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// OutputType selects how log lines are rendered.
type OutputType string

const (
	OutputJSON   OutputType = "json"
	OutputPretty OutputType = "pretty"
)

// ParseLevel maps a configuration string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a timestamped logger writing to stdout.
func New(level string, output OutputType) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, output)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, output OutputType) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if output == OutputPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}
