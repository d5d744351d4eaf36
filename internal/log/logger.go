// Package log builds the process-wide zerolog logger.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger on stdout.
func New(environment string, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, environment, level)
}

// NewWithWriter writes JSON lines in production and a human readable console
// format elsewhere. An explicit level wins over the environment default.
func NewWithWriter(out io.Writer, environment string, level string) zerolog.Logger {
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(levelFor(environment, level)).
		With().
		Timestamp().
		Str("env", environment).
		Logger()
}

func levelFor(environment string, level string) zerolog.Level {
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		return parsed
	}
	if environment == "production" {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}
