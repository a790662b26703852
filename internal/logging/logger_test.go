package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitWritesJSONWithServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "smart-parking", "production", "info")

	Info(context.Background(), "vehicle parked", "plate", "ABC123")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "vehicle parked", record["msg"])
	assert.Equal(t, "smart-parking", record["service"])
	assert.Equal(t, "production", record["environment"])
	assert.Equal(t, "ABC123", record["plate"])
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "smart-parking", "production", "info")

	Debug(context.Background(), "noisy")

	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("warn", "development"))
	assert.Equal(t, slog.LevelDebug, parseLevel("", "development"))
	assert.Equal(t, slog.LevelInfo, parseLevel("", "production"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus", "staging"))
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "smart-parking", "production", "info")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	Info(ctx, "inside span")
	span.End()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, span.SpanContext().TraceID().String(), record["traceId"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["spanId"])
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink unavailable")
}

func TestFanoutKeepsWritingWhenASinkFails(t *testing.T) {
	var buf bytes.Buffer
	sink := slog.NewJSONHandler(&buf, nil)
	sinks := fanout{failingHandler{sink}, sink}

	err := slog.New(sinks).Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "lot full", 0))

	require.EqualError(t, err, "sink unavailable")
	assert.Contains(t, buf.String(), `"msg":"lot full"`)
}

func TestFanoutWithGroup(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(fanout{slog.NewJSONHandler(&buf, nil)})

	l.WithGroup("vehicle").Info("parked", "plate", "ABC123")

	assert.Contains(t, buf.String(), `"vehicle":{"plate":"ABC123"}`)
}
