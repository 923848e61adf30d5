package ports

import "context"

// Telemetry records dashboard usage to an external observability system.
type Telemetry interface {
	// RecordPageView counts one render of a page.
	RecordPageView(ctx context.Context, page string)
	// RecordPrediction records a point estimate produced by the pipeline.
	RecordPrediction(ctx context.Context, price float64)
	// RecordTest records the outcome of a hypothesis test.
	RecordTest(ctx context.Context, test string, rejected bool)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
