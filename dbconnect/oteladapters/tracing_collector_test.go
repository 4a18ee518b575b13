package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/atsdoc/dbconnect/dbconnect/oteladapters"
)

func newTracedCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(tracerProvider.Tracer("test")), exporter
}

func spanAttribute(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_ShouldRecordSuccessfulSpan(t *testing.T) {
	collector, exporter := newTracedCollector()

	ctx, spanCtx := collector.StartSpan(context.Background(), "dbconnect.open", map[string]string{
		"db.subprotocol": "mysql",
	})
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())

	collector.FinishSpan(spanCtx, "success", map[string]string{"db.driver": "mysql"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "dbconnect.open", span.Name)
	assert.Equal(t, trace.SpanKindClient, span.SpanKind)
	assert.Equal(t, codes.Ok, span.Status.Code)

	subprotocol, ok := spanAttribute(span, "db.subprotocol")
	assert.True(t, ok)
	assert.Equal(t, "mysql", subprotocol)

	driver, ok := spanAttribute(span, "db.driver")
	assert.True(t, ok)
	assert.Equal(t, "mysql", driver)
}

func Test_TracingCollector_ShouldRecordFailedSpan(t *testing.T) {
	collector, exporter := newTracedCollector()

	_, spanCtx := collector.StartSpan(context.Background(), "dbconnect.open", nil)
	spanCtx.AddAttribute("error_kind", "auth")
	collector.FinishSpan(spanCtx, "error", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	kind, ok := spanAttribute(spans[0], "error_kind")
	assert.True(t, ok)
	assert.Equal(t, "auth", kind)
}

func Test_TracingCollector_ShouldRecordUnknownStatusAsAttribute(t *testing.T) {
	collector, exporter := newTracedCollector()

	_, spanCtx := collector.StartSpan(context.Background(), "dbconnect.open", nil)
	collector.FinishSpan(spanCtx, "skipped", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)

	status, ok := spanAttribute(spans[0], "status")
	assert.True(t, ok)
	assert.Equal(t, "skipped", status)
}
