// Package monitoring provides structured logging, execution telemetry, and
// the live monitor stream.
//
// DESIGN: Thin wrapper around zerolog with:
//   - Configurable level, format (json/console/auto), output (stdout/stderr/file)
//   - "auto" picks console format on a terminal, json otherwise
//   - Global() sets the default logger for the entire application
package monitoring

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// LoggerConfig selects level, format, and destination.
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console, auto
	Output string // stdout, stderr, or file path
}

// NewLogger creates a zerolog logger from the configuration.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer io.Writer
	isTerminal := false
	switch cfg.Output {
	case "stderr", "":
		writer = os.Stderr
		isTerminal = term.IsTerminal(int(os.Stderr.Fd()))
	case "stdout":
		writer = os.Stdout
		isTerminal = term.IsTerminal(int(os.Stdout.Fd()))
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			writer = os.Stderr
		} else {
			writer = f
		}
	}

	format := cfg.Format
	if format == "auto" {
		if isTerminal {
			format = "console"
		} else {
			format = "json"
		}
	}
	if format == "console" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Global installs the configured logger as the zerolog default.
func Global(cfg LoggerConfig) zerolog.Logger {
	logger := NewLogger(cfg)
	log.Logger = logger
	return logger
}
