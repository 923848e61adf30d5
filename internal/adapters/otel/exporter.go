package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/pricepaid/internal/ports"
)

const (
	serviceName    = "pricepaid"
	serviceVersion = "1.0.0"
)

// Exporter exports dashboard usage metrics to an OTEL Collector.
type Exporter struct {
	provider       *sdkmetric.MeterProvider
	pageViews      metric.Int64Counter
	predictions    metric.Int64Counter
	predictedPrice metric.Float64Histogram
	tests          metric.Int64Counter
}

// New returns an OTLP exporter when cfg enables one, and a no-op otherwise.
func New(ctx context.Context, cfg Config) (ports.Telemetry, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOpExporter(), nil
	}
	return NewExporter(ctx, cfg)
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	pageViews, err := meter.Int64Counter(
		"pricepaid_page_views_total",
		metric.WithDescription("Dashboard page renders"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating page view counter: %w", err)
	}

	predictions, err := meter.Int64Counter(
		"pricepaid_predictions_total",
		metric.WithDescription("Price predictions served"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating predictions counter: %w", err)
	}

	predictedPrice, err := meter.Float64Histogram(
		"pricepaid_predicted_price_gbp",
		metric.WithDescription("Distribution of predicted sale prices"),
		metric.WithUnit("GBP"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating predicted price histogram: %w", err)
	}

	tests, err := meter.Int64Counter(
		"pricepaid_hypothesis_tests_total",
		metric.WithDescription("Hypothesis tests run, by outcome"),
		metric.WithUnit("{test}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hypothesis test counter: %w", err)
	}

	return &Exporter{
		provider:       provider,
		pageViews:      pageViews,
		predictions:    predictions,
		predictedPrice: predictedPrice,
		tests:          tests,
	}, nil
}

func (e *Exporter) RecordPageView(ctx context.Context, page string) {
	e.pageViews.Add(ctx, 1, metric.WithAttributes(attribute.String("page", page)))
}

func (e *Exporter) RecordPrediction(ctx context.Context, price float64) {
	e.predictions.Add(ctx, 1)
	e.predictedPrice.Record(ctx, price)
}

func (e *Exporter) RecordTest(ctx context.Context, test string, rejected bool) {
	e.tests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("test", test),
		attribute.Bool("rejected", rejected),
	))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
