package runner

import (
	"time"

	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/observability"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithTickHandler registers a callback for refresh ticks. It runs on the
// worker goroutine and must not block.
func WithTickHandler(fn func(Tick)) Option {
	return func(r *Runner) { r.onTick = append(r.onTick, fn) }
}

// WithFailureHandler registers a callback for unexpected failures under the
// log and record policies.
func WithFailureHandler(fn func(*graph.Node, error)) Option {
	return func(r *Runner) { r.onFailure = fn }
}

// WithMetrics records run, tick and failure metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithTracing wraps every node hook in a span.
func WithTracing() Option {
	return func(r *Runner) { r.tracing = true }
}

// WithClock replaces time.Now for tick timing.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}
