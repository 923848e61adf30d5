package otel

import "context"

// NoOpExporter is a telemetry sink that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordPageView(ctx context.Context, page string)            {}
func (e *NoOpExporter) RecordPrediction(ctx context.Context, price float64)        {}
func (e *NoOpExporter) RecordTest(ctx context.Context, test string, rejected bool) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
