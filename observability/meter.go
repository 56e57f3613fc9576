package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/ocvflow/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the global meter provider.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(ctx, config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Process outcome labels.
const (
	StatusOK         = "ok"
	StatusFailed     = "failed"
	StatusUnexpected = "unexpected"
)

// Metrics holds the engine's metric instruments.
type Metrics struct {
	processTotal    metric.Int64Counter
	processDuration metric.Float64Histogram
	runsActive      metric.Int64UpDownCounter
	tickTotal       metric.Int64Counter
	failureTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	processTotal, err := meter.Int64Counter("node.process.total",
		metric.WithDescription("Node process calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating node.process.total counter: %w", err)
	}

	processDuration, err := meter.Float64Histogram("node.process.duration",
		metric.WithDescription("Duration of node process calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating node.process.duration histogram: %w", err)
	}

	runsActive, err := meter.Int64UpDownCounter("run.active",
		metric.WithDescription("Number of active runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating run.active gauge: %w", err)
	}

	tickTotal, err := meter.Int64Counter("run.tick.total",
		metric.WithDescription("Refresh ticks emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating run.tick.total counter: %w", err)
	}

	failureTotal, err := meter.Int64Counter("node.failure.total",
		metric.WithDescription("Node failures by class"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating node.failure.total counter: %w", err)
	}

	return &Metrics{
		processTotal:    processTotal,
		processDuration: processDuration,
		runsActive:      runsActive,
		tickTotal:       tickTotal,
		failureTotal:    failureTotal,
	}, nil
}

// RecordProcess records one node process call.
func (m *Metrics) RecordProcess(ctx context.Context, node, kind, status string, duration time.Duration) {
	m.processTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node", node),
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
	m.processDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordFailure records a node failure; class is StatusFailed or StatusUnexpected.
func (m *Metrics) RecordFailure(ctx context.Context, class, node string) {
	m.failureTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("class", class),
		attribute.String("node", node),
	))
}

// RunStarted increments the active run gauge.
func (m *Metrics) RunStarted(ctx context.Context) {
	m.runsActive.Add(ctx, 1)
}

// RunStopped decrements the active run gauge.
func (m *Metrics) RunStopped(ctx context.Context) {
	m.runsActive.Add(ctx, -1)
}

// RecordTick counts a refresh tick.
func (m *Metrics) RecordTick(ctx context.Context) {
	m.tickTotal.Add(ctx, 1)
}
