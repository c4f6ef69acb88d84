package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "portfolio-api"

// New creates a logger from LOG_LEVEL and ENV. Development gets pretty
// console output.
func New() zerolog.Logger {
	format := "json"
	if os.Getenv("ENV") == "development" {
		format = "pretty"
	}
	return NewWithConfig(os.Getenv("LOG_LEVEL"), format, os.Stdout)
}

// NewWithConfig creates a structured logger writing to out. format is
// "json" or "pretty".
func NewWithConfig(level, format string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "pretty" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(ParseLevel(level)).
			With().
			Timestamp().
			Caller().
			Str("service", serviceName).
			Logger()
	}

	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
