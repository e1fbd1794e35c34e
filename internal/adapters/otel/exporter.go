package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "ogc-dashboard"
	serviceVersion = "1.0.0"
)

// Exporter exports pipeline metrics to an OTEL Collector.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	meter            metric.Meter
	rowsLoaded       metric.Int64Counter
	loadWarnings     metric.Int64Counter
	loadDuration     metric.Float64Histogram
	aggregationRuns  metric.Int64Counter
	aggregationTook  metric.Float64Histogram
	entriesProcessed metric.Int64Counter
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

	meter := provider.Meter(serviceName)

	rowsLoaded, err := meter.Int64Counter(
		"ogc_rows_loaded_total",
		metric.WithDescription("Time-entry rows parsed from CSV exports"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rows counter: %w", err)
	}

	loadWarnings, err := meter.Int64Counter(
		"ogc_load_warnings_total",
		metric.WithDescription("Data-quality warnings raised during load"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating warnings counter: %w", err)
	}

	loadDuration, err := meter.Float64Histogram(
		"ogc_load_duration_seconds",
		metric.WithDescription("CSV load duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating load histogram: %w", err)
	}

	aggregationRuns, err := meter.Int64Counter(
		"ogc_aggregation_runs_total",
		metric.WithDescription("Dashboard aggregation passes"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating aggregation counter: %w", err)
	}

	aggregationTook, err := meter.Float64Histogram(
		"ogc_aggregation_duration_seconds",
		metric.WithDescription("Aggregation pass duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating aggregation histogram: %w", err)
	}

	entriesProcessed, err := meter.Int64Counter(
		"ogc_entries_processed_total",
		metric.WithDescription("Filtered entries fed into aggregation passes"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entries counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		meter:            meter,
		rowsLoaded:       rowsLoaded,
		loadWarnings:     loadWarnings,
		loadDuration:     loadDuration,
		aggregationRuns:  aggregationRuns,
		aggregationTook:  aggregationTook,
		entriesProcessed: entriesProcessed,
	}, nil
}

// RecordLoad exports measurements for one CSV load pass.
func (e *Exporter) RecordLoad(ctx context.Context, rows int, warnings int, took time.Duration) {
	opt := metric.WithAttributes(attribute.String("source", "csv"))
	e.rowsLoaded.Add(ctx, int64(rows), opt)
	e.loadWarnings.Add(ctx, int64(warnings), opt)
	e.loadDuration.Record(ctx, took.Seconds(), opt)
}

// RecordAggregation exports measurements for one aggregation pass.
func (e *Exporter) RecordAggregation(ctx context.Context, entries int, took time.Duration) {
	e.aggregationRuns.Add(ctx, 1)
	e.entriesProcessed.Add(ctx, int64(entries))
	e.aggregationTook.Record(ctx, took.Seconds())
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
