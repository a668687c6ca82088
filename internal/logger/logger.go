// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs the global logger: human-readable console output in debug
// mode, JSON lines otherwise.
func Init(service string, debug bool) zerolog.Logger {
	return InitWriter(os.Stdout, service, debug)
}

// InitWriter is Init with an explicit destination.
func InitWriter(out io.Writer, service string, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := out
	level := zerolog.InfoLevel
	if debug {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return log.Logger
}
