package provider

import (
	"context"
	"database/sql"
	"time"

	"github.com/atsdoc/dbconnect/dbconnect"
)

// Logger interface for connection attempt logging and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging, e.g. with trace correlation.
// When set, it is used instead of Logger.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting connection attempt metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
// The Provider uses them when available, falling back to the base MetricsCollector.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be updated before it is finished.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for tracing connection attempts.
// Open starts one span per attempt; the span's context is passed on to the driver and the contextual logger.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// Driver opens and verifies a *sql.DB for a parsed target and classifies its failures.
// Connect also returns the property keys it could not translate.
type Driver interface {
	Name() string
	Dialect() string
	Connect(ctx context.Context, target dbconnect.Target, username, password string) (*sql.DB, []string, error)
	Classify(err error) dbconnect.Kind
}

// Option defines a functional option for configuring the Provider.
type Option func(*Provider) error

// WithLogger sets the logger for the Provider, replacing the default stdout logger,
// which only reports failures.
// A nil logger disables logging.
//
// Debug level: attempt start, properties without a driver equivalent
// Info level: established connections with timing
// Error level: failed attempts, exactly one record per failed attempt.
func WithLogger(logger Logger) Option {
	return func(p *Provider) error {
		p.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Provider.
// It takes precedence over the Logger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(p *Provider) error {
		p.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Provider.
// The collector receives attempt counts, error counts by kind and attempt durations.
func WithMetrics(collector MetricsCollector) Option {
	return func(p *Provider) error {
		p.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Provider.
func WithTracing(collector TracingCollector) Option {
	return func(p *Provider) error {
		p.tracingCollector = collector
		return nil
	}
}

// WithConnectTimeout bounds every attempt with a deadline. Zero keeps the driver default.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(p *Provider) error {
		if timeout < 0 {
			return dbconnect.ErrNegativeConnectTimeout
		}

		p.connectTimeout = timeout

		return nil
	}
}

// WithDriver registers a driver for a URL subprotocol, replacing a built-in one if present.
func WithDriver(subprotocol string, driver Driver) Option {
	return func(p *Provider) error {
		if subprotocol == "" {
			return dbconnect.ErrEmptySubprotocol
		}

		if driver == nil {
			return dbconnect.ErrNilDriver
		}

		p.drivers[subprotocol] = driver

		return nil
	}
}
