package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/atsdoc/dbconnect/dbconnect"
)

// logDebug logs at debug level, preferring the contextual logger if configured.
func (p *Provider) logDebug(ctx context.Context, message string, args ...any) {
	if p.contextualLogger != nil {
		p.contextualLogger.DebugContext(ctx, message, args...)
		return
	}

	if p.logger != nil {
		p.logger.Debug(message, args...)
	}
}

// logInfo logs at info level, preferring the contextual logger if configured.
func (p *Provider) logInfo(ctx context.Context, message string, args ...any) {
	if p.contextualLogger != nil {
		p.contextualLogger.InfoContext(ctx, message, args...)
		return
	}

	if p.logger != nil {
		p.logger.Info(message, args...)
	}
}

// logError logs error information at the error level, preferring the contextual logger if configured.
func (p *Provider) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if p.contextualLogger != nil {
		p.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if p.logger != nil {
		p.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordAttemptMetrics records a failed attempt: counter, error counter and, if it dialed, its duration.
func (p *Provider) recordAttemptMetrics(ctx context.Context, driverName string, kind dbconnect.Kind, duration time.Duration) {
	if p.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		metricLabelDriver: driverName,
		metricLabelStatus: statusError,
	}

	p.incrementCounter(ctx, metricConnectAttempts, labels)

	errorLabels := map[string]string{
		metricLabelDriver:    driverName,
		metricLabelErrorKind: kind.String(),
	}

	p.incrementCounter(ctx, metricConnectErrors, errorLabels)

	if duration > 0 {
		p.recordDuration(ctx, metricConnectDuration, duration, labels)
	}
}

// recordSuccessMetrics records a successful attempt and its duration.
func (p *Provider) recordSuccessMetrics(ctx context.Context, driverName string, duration time.Duration) {
	if p.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		metricLabelDriver: driverName,
		metricLabelStatus: statusSuccess,
	}

	p.incrementCounter(ctx, metricConnectAttempts, labels)
	p.recordDuration(ctx, metricConnectDuration, duration, labels)
}

func (p *Provider) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if contextualCollector, ok := p.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	p.metricsCollector.IncrementCounter(metric, labels)
}

func (p *Provider) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if contextualCollector, ok := p.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	p.metricsCollector.RecordDuration(metric, duration, labels)
}

// startOpenSpan starts a tracing span for one attempt if the tracing collector is configured.
func (p *Provider) startOpenSpan(ctx context.Context, attemptID, subprotocol, target string) (context.Context, SpanContext) {
	if p.tracingCollector == nil {
		return ctx, nil
	}

	return p.tracingCollector.StartSpan(ctx, spanNameOpen, map[string]string{
		spanAttrAttemptID:   attemptID,
		spanAttrSubprotocol: subprotocol,
		spanAttrTarget:      target,
	})
}

// finishOpenSpanSuccess finishes a successful attempt's span with the driver and timing.
func (p *Provider) finishOpenSpanSuccess(span SpanContext, driverName string, duration time.Duration) {
	if p.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)

	p.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrDriver:     driverName,
		spanAttrDurationMS: fmt.Sprintf("%.3f", toMilliseconds(duration)),
	})
}

// finishOpenSpanError finishes a failed attempt's span with the failure kind.
func (p *Provider) finishOpenSpanError(span SpanContext, kind dbconnect.Kind, duration time.Duration) {
	if p.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorKind, kind.String())

	attrs := map[string]string{spanAttrErrorKind: kind.String()}
	if duration > 0 {
		attrs[spanAttrDurationMS] = fmt.Sprintf("%.3f", toMilliseconds(duration))
	}

	p.tracingCollector.FinishSpan(span, statusError, attrs)
}
