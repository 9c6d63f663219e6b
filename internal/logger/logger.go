// Package logger provides structured logging for writeguard using log/slog.
//
// Logs always go to stderr (or the configured writer). Stdout is reserved for
// the hook decision payload.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dgerlanc/writeguard/internal/constants"
)

var (
	log     *slog.Logger
	once    sync.Once
	verbose bool
)

// Options configures the logger.
type Options struct {
	// Verbose enables debug-level logging
	Verbose bool
	// Output is the writer for log output (defaults to os.Stderr)
	Output io.Writer
	// JSON enables JSON-formatted output
	JSON bool
}

// Init initializes the global logger with the given options.
// Only the first call takes effect.
func Init(opts Options) {
	once.Do(func() {
		verbose = opts.Verbose

		output := opts.Output
		if output == nil {
			output = os.Stderr
		}

		// Warnings surface config fallbacks; everything else needs --verbose.
		level := slog.LevelWarn
		if opts.Verbose {
			level = slog.LevelDebug
		}
		handlerOpts := &slog.HandlerOptions{Level: level}

		var handler slog.Handler
		if opts.JSON {
			handler = slog.NewJSONHandler(output, handlerOpts)
		} else {
			handler = slog.NewTextHandler(output, handlerOpts)
		}

		log = slog.New(handler).With("app", constants.AppName)
	})
}

// Reset resets the logger. Tests only.
func Reset() {
	once = sync.Once{}
	log = nil
	verbose = false
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verbose
}

func Debug(msg string, args ...any) {
	if log != nil {
		log.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if log != nil {
		log.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if log != nil {
		log.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if log != nil {
		log.Error(msg, args...)
	}
}

// With returns a logger with additional context attributes.
// Before Init it returns a logger that discards everything.
func With(args ...any) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log.With(args...)
}
