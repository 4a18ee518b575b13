package oteladapters_test

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
)

// logRecorder is a log.LoggerProvider whose loggers keep every emitted record.
type logRecorder struct {
	embedded.LoggerProvider
	logger *recordingLogger
}

func newLogRecorder() *logRecorder {
	return &logRecorder{logger: &recordingLogger{}}
}

func (r *logRecorder) Logger(string, ...log.LoggerOption) log.Logger {
	return r.logger
}

type emittedRecord struct {
	ctx    context.Context
	record log.Record
}

type recordingLogger struct {
	embedded.Logger
	mu      sync.Mutex
	records []emittedRecord
}

func (l *recordingLogger) Emit(ctx context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, emittedRecord{ctx: ctx, record: record.Clone()})
}

func (l *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}

func (l *recordingLogger) emitted() []emittedRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := make([]emittedRecord, len(l.records))
	copy(records, l.records)

	return records
}

func attributesOf(record log.Record) map[string]log.Value {
	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}
