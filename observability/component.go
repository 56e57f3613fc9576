package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/ocvflow/component"
)

// Component owns the tracer and meter providers for the host lifecycle.
// When disabled it leaves the global no-op providers in place.
type Component struct {
	cfg    Config
	tracer TracerConfig
	meter  MeterConfig
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component for a service.
func NewComponent(cfg Config, service, version, env string) *Component {
	return &Component{
		cfg:    cfg,
		tracer: cfg.Tracer(service, version, env),
		meter:  cfg.Meter(service, version, env),
	}
}

func (c *Component) Name() string { return "telemetry" }

func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	tp, err := InitTracer(ctx, &c.tracer)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := InitMeter(ctx, &c.meter)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	c.tp, c.mp = tp, mp
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
		c.mp = nil
	}
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
		c.tp = nil
	}
	return errors.Join(errs...)
}

func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "disabled"
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp=%s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "otel", Details: details}
}
