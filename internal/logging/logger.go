// Package logging builds the zerolog loggers used across coinfocus and carries
// them, together with a per-operation trace ID, through context.Context.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config controls how NewLogger builds a logger.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unknown values fall back to info.
	Level string
	// Format is FormatJSON or FormatConsole.
	Format string
	// Output is where log lines go. Nil means os.Stderr.
	Output io.Writer
}

// NewLogger creates a zerolog logger from cfg.
func NewLogger(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if strings.EqualFold(cfg.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// FileResult is the outcome of NewFileLogger.
type FileResult struct {
	Logger   zerolog.Logger
	FilePath string
	file     *os.File
}

// Close releases the log file handle, if one was opened.
func (r *FileResult) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// NewFileLogger creates a logger appending to path. The file is created with 0600
// permissions when it does not exist.
func NewFileLogger(cfg Config, path string) (*FileResult, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	cfg.Output = f
	return &FileResult{
		Logger:   NewLogger(cfg),
		FilePath: path,
		file:     f,
	}, nil
}

// ComponentLogger returns a child logger tagged with the component name.
// zerolog does not replace fields, so base must not already carry a component.
func ComponentLogger(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
