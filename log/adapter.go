package log

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	zkrlog "github.com/zircuit-labs/zkr-go-common/log"

	"github.com/zircuit-labs/contract-host/core/scerr"
)

// slogLogger implements Logger on top of a *slog.Logger.
type slogLogger struct {
	inner *slog.Logger
}

// FromSlog returns a Logger writing through sl.
func FromSlog(sl *slog.Logger) Logger {
	return &slogLogger{inner: sl}
}

func (l *slogLogger) With(ctx ...any) Logger {
	return &slogLogger{inner: l.inner.With(ctx...)}
}

func (l *slogLogger) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *slogLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.emit(level, msg, ctx)
}

func (l *slogLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.emit(level, msg, attrs)
}

// Trace logs below debug; slog has no native trace level.
func (l *slogLogger) Trace(msg string, ctx ...any) { l.emit(LevelTrace, msg, ctx) }
func (l *slogLogger) Debug(msg string, ctx ...any) { l.emit(LevelDebug, msg, ctx) }
func (l *slogLogger) Info(msg string, ctx ...any)  { l.emit(LevelInfo, msg, ctx) }
func (l *slogLogger) Warn(msg string, ctx ...any)  { l.emit(LevelWarn, msg, ctx) }
func (l *slogLogger) Error(msg string, ctx ...any) { l.emit(LevelError, msg, ctx) }

// Crit logs at LevelCrit and exits the process.
func (l *slogLogger) Crit(msg string, ctx ...any) {
	l.emit(LevelCrit, msg, ctx)
	os.Exit(1)
}

func (l *slogLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *slogLogger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *slogLogger) emit(level slog.Level, msg string, ctx []any) {
	bg := context.Background()
	if !l.inner.Enabled(bg, level) {
		return
	}
	l.inner.Log(bg, level, msg, errorAttrs(ctx, l.inner.Enabled(bg, LevelDebug))...)
}

// errorAttrs rewrites the error values found under "err"-prefixed keys.
// Classified errors become a group with their type and code, plus the
// full diagnostic rendering when debug is set. Other errors go through
// zkr-go-common so their stack traces are kept.
func errorAttrs(ctx []any, debug bool) []any {
	if len(ctx) == 0 {
		return ctx
	}
	out := make([]any, 0, len(ctx))
	for i := 0; i < len(ctx); i += 2 {
		if i+1 == len(ctx) {
			out = append(out, ctx[i])
			break
		}
		key, value := ctx[i], ctx[i+1]
		if name, ok := key.(string); ok && strings.HasPrefix(strings.ToLower(name), "err") {
			if err, ok := value.(error); ok && err != nil {
				out = append(out, errorAttr(name, err, debug))
				continue
			}
		}
		out = append(out, key, value)
	}
	return out
}

func errorAttr(key string, err error, debug bool) slog.Attr {
	var se scerr.Error
	if !errors.As(err, &se) {
		return zkrlog.ErrAttr(err)
	}
	attrs := []any{
		slog.String("type", se.Type.String()),
		slog.String("code", codeString(se)),
	}
	// A bare classification has nothing beyond type and code to show.
	if _, bare := err.(scerr.Error); debug && !bare {
		attrs = append(attrs, slog.String("debug", fmt.Sprintf("%+v", err)))
	}
	return slog.Group(key, attrs...)
}

func codeString(e scerr.Error) string {
	if e.Type == scerr.Contract {
		return fmt.Sprintf("#%d", uint32(e.Code))
	}
	return e.Code.String()
}
