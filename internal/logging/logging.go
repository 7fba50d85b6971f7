// Package logging builds the zerolog loggers used by the wayfinder binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where logs go.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File receives JSON lines when set. Parent directories are created.
	File string
	// Console writes human-readable lines to Stderr.
	Console bool
	// Stderr overrides os.Stderr for the console writer.
	Stderr io.Writer
}

// Logger is a configured zerolog.Logger plus the file it writes to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a logger from opts. With neither a file nor a console the
// logger discards everything.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var writers []io.Writer
	l := &Logger{}
	if opts.Console {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", opts.File, err)
		}
		l.file = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		l.Logger = zerolog.Nop()
	case 1:
		l.Logger = zerolog.New(writers[0]).Level(level).With().Timestamp().Logger()
	default:
		l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	}
	return l, nil
}

// ParseLevel maps a config level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
