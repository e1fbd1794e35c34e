package otel

import (
	"context"
	"time"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordLoad(ctx context.Context, rows int, warnings int, took time.Duration) {
}

func (e *NoOpExporter) RecordAggregation(ctx context.Context, entries int, took time.Duration) {
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
