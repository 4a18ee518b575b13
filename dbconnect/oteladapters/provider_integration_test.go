package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/atsdoc/dbconnect/dbconnect"
	"github.com/atsdoc/dbconnect/dbconnect/oteladapters"
	"github.com/atsdoc/dbconnect/dbconnect/provider"
)

func Test_Provider_WithOpenTelemetryAdapters_ShouldCorrelateFailedAttempt(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := newLogRecorder()

	cfg, err := dbconnect.NewConnectionConfig("jdbc:sqlserver://localhost:1433/app", "sa", "secret")
	require.NoError(t, err)

	p, err := provider.NewProvider(cfg,
		provider.WithContextualLogger(oteladapters.NewSlogBridgeLogger("dbconnect", otelslog.WithLoggerProvider(recorder))),
		provider.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("dbconnect"))),
		provider.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("dbconnect"))),
	)
	require.NoError(t, err)

	// act
	db := p.GetConnection(context.Background())

	// assert
	assert.Nil(t, db)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "dbconnect.open", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)

	errorRecords := make([]emittedRecord, 0)
	for _, emitted := range recorder.logger.emitted() {
		if emitted.record.Severity() == log.SeverityError {
			errorRecords = append(errorRecords, emitted)
		}
	}
	require.Len(t, errorRecords, 1)
	assert.Equal(t, spans[0].SpanContext.TraceID(), trace.SpanContextFromContext(errorRecords[0].ctx).TraceID())

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	sum, ok := findMetric(t, resourceMetrics, "dbconnect_connect_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)

	kind, ok := sum.DataPoints[0].Attributes.Value("error_kind")
	assert.True(t, ok)
	assert.Equal(t, "driver", kind.AsString())
}
