package oteladapters_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/atsdoc/dbconnect/dbconnect/oteladapters"
)

func Test_OTelLogger_ShouldEmitTypedAttributes(t *testing.T) {
	recorder := newLogRecorder()
	logger := oteladapters.NewOTelLogger(recorder.Logger("test"))

	logger.ErrorContext(context.Background(), "database connection failed",
		"error", errors.New("connection refused"),
		"error_kind", "network",
		"duration_ms", 12.5,
		"port", 3306,
		"timeout", 2*time.Second,
		"dangling",
	)

	records := recorder.logger.emitted()
	require.Len(t, records, 1)

	record := records[0].record
	assert.Equal(t, log.SeverityError, record.Severity())
	assert.Equal(t, "ERROR", record.SeverityText())
	assert.Equal(t, "database connection failed", record.Body().AsString())

	attrs := attributesOf(record)
	assert.Len(t, attrs, 5)
	assert.Equal(t, "connection refused", attrs["error"].AsString())
	assert.Equal(t, "network", attrs["error_kind"].AsString())
	assert.InDelta(t, 12.5, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.Equal(t, int64(3306), attrs["port"].AsInt64())
	assert.Equal(t, "2s", attrs["timeout"].AsString())
}

func Test_OTelLogger_ShouldMapSeverities(t *testing.T) {
	recorder := newLogRecorder()
	logger := oteladapters.NewOTelLogger(recorder.Logger("test"))
	ctx := context.Background()

	logger.DebugContext(ctx, "debug")
	logger.InfoContext(ctx, "info")
	logger.WarnContext(ctx, "warn")
	logger.ErrorContext(ctx, "error")

	records := recorder.logger.emitted()
	require.Len(t, records, 4)
	assert.Equal(t, log.SeverityDebug, records[0].record.Severity())
	assert.Equal(t, log.SeverityInfo, records[1].record.Severity())
	assert.Equal(t, log.SeverityWarn, records[2].record.Severity())
	assert.Equal(t, log.SeverityError, records[3].record.Severity())
}

func Test_SlogBridgeLogger_ShouldPassSpanContextToLoggerProvider(t *testing.T) {
	tracerProvider := sdktrace.NewTracerProvider()
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	recorder := newLogRecorder()
	logger := oteladapters.NewSlogBridgeLogger("test", otelslog.WithLoggerProvider(recorder))

	ctx, span := tracerProvider.Tracer("test").Start(context.Background(), "dbconnect.open")
	logger.InfoContext(ctx, "database connection established", "driver", "mysql")
	span.End()

	records := recorder.logger.emitted()
	require.Len(t, records, 1)
	assert.Equal(t, "database connection established", records[0].record.Body().AsString())

	spanContext := trace.SpanContextFromContext(records[0].ctx)
	assert.True(t, spanContext.IsValid())
	assert.Equal(t, span.SpanContext().TraceID(), spanContext.TraceID())
}

func Test_SlogBridgeLoggerWithHandler_ShouldWriteToHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	logger.DebugContext(context.Background(), "opening database connection", "driver", "pgx")

	assert.Contains(t, buf.String(), "opening database connection")
	assert.Contains(t, buf.String(), `"driver":"pgx"`)
}
