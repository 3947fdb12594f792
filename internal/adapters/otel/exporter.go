// Package otel exports session metrics to an OpenTelemetry collector.
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

	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

const (
	serviceName    = "pomo"
	serviceVersion = "1.0.0"
)

// Exporter records one set of measurements per recorded session.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	sessionsTotal metric.Int64Counter
	focusTotal    metric.Float64Counter
	durationHist  metric.Float64Histogram
}

// Ensure Exporter can be registered with the dispatcher.
var _ ports.SessionListener = (*Exporter)(nil)

// NewExporter creates an exporter pushing to the configured OTLP endpoint.
func NewExporter(ctx context.Context, cfg config.TelemetryConfig) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("telemetry is disabled or endpoint not configured")
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

	e, err := NewExporterWithReader(ctx, sdkmetric.NewPeriodicReader(exp))
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.provider)
	return e, nil
}

// NewExporterWithReader builds the instruments on top of reader.
func NewExporterWithReader(ctx context.Context, reader sdkmetric.Reader) (*Exporter, error) {
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
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"pomo_sessions_total",
		metric.WithDescription("Total number of recorded sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	focusTotal, err := meter.Float64Counter(
		"pomo_focus_seconds_total",
		metric.WithDescription("Total focused time across sessions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating focus counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"pomo_session_duration_seconds",
		metric.WithDescription("Actual session duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Exporter{
		provider:      provider,
		sessionsTotal: sessionsTotal,
		focusTotal:    focusTotal,
		durationHist:  durationHist,
	}, nil
}

// OnSessionRecorded implements ports.SessionListener.
func (e *Exporter) OnSessionRecorded(ctx context.Context, s domain.Session) {
	opt := metric.WithAttributes(
		attribute.String("task", s.TaskName),
		attribute.String("status", s.StatusLabel()),
	)
	seconds := s.ActualDuration.Seconds()

	e.sessionsTotal.Add(ctx, 1, opt)
	e.focusTotal.Add(ctx, seconds, opt)
	e.durationHist.Record(ctx, seconds, opt)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
