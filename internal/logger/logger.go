package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. LOG_LEVEL and LOG_PRETTY come from the
// environment so cmd binaries share one setup.
func New() zerolog.Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(os.Getenv("LOG_PRETTY"), "true") {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewWithWriter is used by tests to capture output.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
