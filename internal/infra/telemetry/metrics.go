package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"weather-api/internal/domain/gateway/metrics"
	"weather-api/internal/domain/model"
)

type Config struct {
	ServiceName string
	Environment string
}

// Metrics records domain counters through an OpenTelemetry meter exported in the
// Prometheus text format on its own registry.
type Metrics struct {
	MeterProvider *sdkmetric.MeterProvider
	Registry      *prometheus.Registry

	ForecastRequestCounter metric.Int64Counter
	BackgroundWorkCounter  metric.Int64Counter
}

var _ metrics.Recorder = (*Metrics)(nil)

func NewMetrics(cfg Config) (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
		otelprom.WithoutUnits(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		attribute.String("environment", cfg.Environment),
	)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	meter := meterProvider.Meter(cfg.ServiceName)

	forecastRequestCounter, err := meter.Int64Counter(
		"weather_forecast_requests",
		metric.WithDescription("Total number of weather forecast requests"),
	)
	if err != nil {
		return nil, err
	}

	backgroundWorkCounter, err := meter.Int64Counter(
		"background_work_runs",
		metric.WithDescription("Total number of background work lines written, by type"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		MeterProvider:          meterProvider,
		Registry:               registry,
		ForecastRequestCounter: forecastRequestCounter,
		BackgroundWorkCounter:  backgroundWorkCounter,
	}, nil
}

func (m *Metrics) RecordForecastRequest(ctx context.Context) {
	m.ForecastRequestCounter.Add(ctx, 1)
}

func (m *Metrics) RecordBackgroundWork(ctx context.Context, eventType model.BackgroundWorkEventType) {
	m.BackgroundWorkCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", string(eventType)),
	))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if err := m.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}
