// Package log provides the structured logger used across the contract host.
//
// Loggers are backed by log/slog. Errors logged under an "err"-prefixed key
// that carry a host error classification are written as a type/code group,
// with the full diagnostic rendering when debug records are enabled. Any
// other error goes through zkr-go-common's loggable errors, which attaches
// the stack trace carried by errors wrapped with xerrors/stacktrace.
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	zkrlog "github.com/zircuit-labs/zkr-go-common/log"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12
)

// Logger writes key/value structured records at a given level.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes
	With(ctx ...any) Logger

	// New returns a new Logger that has this logger's attributes plus the given attributes. Identical to 'With'.
	New(ctx ...any) Logger

	// Log logs a message at the specified level with context key/value pairs
	Log(level slog.Level, msg string, ctx ...any)

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// Crit logs a message at the crit level with context key/value pairs, and exits
	Crit(msg string, ctx ...any)

	// Write logs a message at the specified level
	Write(level slog.Level, msg string, attrs ...any)

	// Enabled reports whether l emits log records at the given context and level.
	Enabled(ctx context.Context, level slog.Level) bool

	// Handler returns the underlying handler of the inner logger.
	Handler() slog.Handler
}

// rootLogger boxes the root so atomic.Value always stores one concrete type.
type rootLogger struct {
	Logger
}

var root atomic.Value

func init() {
	root.Store(rootLogger{NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: LevelInfo}))})
}

// NewLogger wraps h with the loggable error handler and returns a Logger on top of it.
func NewLogger(h slog.Handler) Logger {
	return FromSlog(slog.New(zkrlog.NewLoggableErrorHandler(h)))
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(rootLogger).Logger
}

// SetDefault replaces the root logger.
func SetDefault(l Logger) {
	if l != nil {
		root.Store(rootLogger{l})
	}
}

// Module returns a child of the root logger tagged with the given module name.
func Module(name string) Logger {
	return Root().With("module", name)
}

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }
