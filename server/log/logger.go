// Package log provides an abstraction over the loggers used by the server.
package log

import (
	"io"

	"github.com/rs/zerolog"
)

type (
	// Logger is an interface over the structured logger to ensure the same log is used in most places rather than the default logger of the log package.
	Logger interface {
		// Printf calls writes the formatted string with values to the logger.
		// Arguments are handled in the manner of fmt.Printf.
		Printf(format string, v ...interface{})
	}

	// StructuredLogger writes each message as a leveled json line.
	StructuredLogger struct {
		zl zerolog.Logger
	}
)

// ServiceName is added to each structured log line.
const ServiceName = "tennis-scorer"

// New creates a StructuredLogger that writes to w.
// Human-readable lines are written instead of json when console is true.
func New(w io.Writer, console bool) *StructuredLogger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	zl := zerolog.New(w).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
	l := StructuredLogger{
		zl: zl,
	}
	return &l
}

// Printf writes the message at the info level.
func (l *StructuredLogger) Printf(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Errorf writes the message at the error level.
func (l *StructuredLogger) Errorf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatalf writes the message at the fatal level and exits the program.
func (l *StructuredLogger) Fatalf(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}
