package otel

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNew_DisabledReturnsNoOp(t *testing.T) {
	tel, err := New(context.Background(), Config{Enabled: false, Endpoint: "localhost:4317"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := tel.(*NoOpExporter); !ok {
		t.Errorf("expected no-op exporter, got %T", tel)
	}
}

func TestNewExporter_RequiresEndpoint(t *testing.T) {
	if _, err := NewExporter(context.Background(), Config{Enabled: true}); err == nil {
		t.Error("expected error without endpoint")
	}
}

func TestExporter_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	e, err := newExporter(provider)
	if err != nil {
		t.Fatalf("newExporter failed: %v", err)
	}
	defer e.Close(ctx)

	e.RecordPageView(ctx, "hypothesis")
	e.RecordPageView(ctx, "hypothesis")
	e.RecordPrediction(ctx, 325000)
	e.RecordTest(ctx, "new_vs_old", true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			seen[m.Name] = true
			if m.Name != "pricepaid_page_views_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("expected int64 sum, got %T", m.Data)
			}
			if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
				t.Errorf("expected one data point of 2 views, got %+v", sum.DataPoints)
			}
		}
	}

	for _, name := range []string{
		"pricepaid_page_views_total",
		"pricepaid_predictions_total",
		"pricepaid_predicted_price_gbp",
		"pricepaid_hypothesis_tests_total",
	} {
		if !seen[name] {
			t.Errorf("expected metric %s to be collected", name)
		}
	}
}
