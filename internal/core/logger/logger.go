// Package logger provides the structured logging engine for apiprobe.
// Uses log/slog writing to stderr and, optionally, an append-only file.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Logger wraps slog.Logger with apiprobe-specific utilities.
type Logger struct {
	*slog.Logger
	closer io.Closer // log file, nil when logging to stderr only
}

// Options controls logger construction.
type Options struct {
	Level  string // debug | info | warn | error
	Format string // text | json
	File   string // optional append-only log file
	Debug  bool   // forces debug level and source locations
	Output io.Writer
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init builds a Logger and installs it as the slog default.
func Init(opts Options) (*Logger, error) {
	lvl := ParseLevel(opts.Level)
	if opts.Debug {
		lvl = slog.LevelDebug
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}

	var closer io.Closer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return nil, fmt.Errorf("open log file %q: %w", opts.File, err)
		}
		closer = f
		writers = append(writers, f)
	}

	w := io.MultiWriter(writers...)

	var handler slog.Handler
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.Debug}
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	base := slog.New(handler)
	slog.SetDefault(base)

	return &Logger{Logger: base, closer: closer}, nil
}

// Discard returns a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithRun returns a child logger tagged with a fresh run id, and the id.
func (l *Logger) WithRun() (*Logger, string) {
	id := NewRunID()
	return &Logger{Logger: l.Logger.With("run", id), closer: l.closer}, id
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// NewRunID returns a lexically sortable, time-ordered run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Since is a helper for logging elapsed durations in milliseconds.
func Since(start time.Time) slog.Attr {
	return slog.Int64("elapsed_ms", time.Since(start).Milliseconds())
}
