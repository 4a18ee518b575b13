// Package oteladapters implements the provider's Logger, MetricsCollector and TracingCollector
// interfaces on top of OpenTelemetry.
//
//	meter := otel.Meter("dbconnect")
//	tracer := otel.Tracer("dbconnect")
//
//	p, err := provider.NewProvider(cfg,
//		provider.WithContextualLogger(oteladapters.NewSlogBridgeLogger("dbconnect")),
//		provider.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		provider.WithTracing(oteladapters.NewTracingCollector(tracer)),
//	)
package oteladapters
