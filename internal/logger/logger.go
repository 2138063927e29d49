// Package logger provides component-scoped logging for askdocs.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the ingestion and retrieval pipeline.
// Without it only errors are shown.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger writes printf-style messages tagged with a component name.
// The zero value is not usable; construct with New or Nop.
type Logger struct {
	inner *slog.Logger
	level *slog.LevelVar
}

// Options configures a root logger.
type Options struct {
	// Output defaults to os.Stderr.
	Output io.Writer

	// Verbose enables debug output.
	Verbose bool

	// JSON switches to the JSON handler, used by the HTTP server.
	JSON bool
}

// New creates a root logger.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := new(slog.LevelVar)
	level.Set(levelFor(opts.Verbose))

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return &Logger{inner: slog.New(handler), level: level}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelError + 1)
	return &Logger{inner: slog.New(slog.NewTextHandler(io.Discard, nil)), level: level}
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelError
}

// SetVerbose enables or disables debug output for this logger and all loggers derived from it.
func (l *Logger) SetVerbose(v bool) {
	if l == nil {
		return
	}
	l.level.Set(levelFor(v))
}

// IsVerbose returns true if debug output is enabled.
func (l *Logger) IsVerbose() bool {
	if l == nil {
		return false
	}
	return l.level.Level() <= slog.LevelDebug
}

// Component returns a child logger tagged with component=name.
// A nil logger yields a discarding logger.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{inner: l.inner.With("component", name), level: l.level}
}

// With returns a child logger carrying extra attributes.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{inner: l.inner.With(args...), level: l.level}
}

// Debug logs a formatted debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

// Info logs a formatted informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

// Warn logs a formatted warning.
func (l *Logger) Warn(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

// Error logs a formatted error.
func (l *Logger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

// Section marks the start of a pipeline stage in verbose output.
func (l *Logger) Section(name string) {
	l.log(slog.LevelDebug, "=== %s ===", name)
}

func (l *Logger) log(level slog.Level, format string, args ...any) {
	if l == nil || !l.inner.Enabled(context.Background(), level) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.inner.Log(context.Background(), level, msg)
}
