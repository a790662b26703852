package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

var logger *slog.Logger

// InitWithWriter installs the process logger. Every record is written to w as
// JSON and forwarded to the global OpenTelemetry logger provider, so telemetry
// must be set up first for the bridge to export anything.
func InitWithWriter(w io.Writer, serviceName, environment, level string) {
	sinks := fanout{
		otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(global.GetLoggerProvider())),
		slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level, environment)}),
	}

	logger = slog.New(sinks).With(
		slog.String("service", serviceName),
		slog.String("environment", environment),
	)
	slog.SetDefault(logger)
}

// parseLevel accepts any slog level name. Anything else falls back to debug in
// development and info everywhere else.
func parseLevel(level, environment string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err == nil {
		return l
	}
	if environment == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// WithContext tags the logger with the trace and span IDs of the active span.
func WithContext(ctx context.Context) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return Logger()
	}
	return Logger().With(
		slog.String("traceId", sc.TraceID().String()),
		slog.String("spanId", sc.SpanID().String()),
	)
}

func Debug(ctx context.Context, msg string, args ...any) { logAt(ctx, slog.LevelDebug, msg, args) }
func Info(ctx context.Context, msg string, args ...any)  { logAt(ctx, slog.LevelInfo, msg, args) }
func Warn(ctx context.Context, msg string, args ...any)  { logAt(ctx, slog.LevelWarn, msg, args) }
func Error(ctx context.Context, msg string, args ...any) { logAt(ctx, slog.LevelError, msg, args) }

func logAt(ctx context.Context, level slog.Level, msg string, args []any) {
	l := Logger()
	if !l.Enabled(ctx, level) {
		return
	}
	WithContext(ctx).Log(ctx, level, msg, args...)
}

// fanout hands each record to every sink that accepts its level. A failing
// sink does not stop the others.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) derive(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}
	return out
}
