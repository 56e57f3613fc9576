package graph

import (
	"context"
	"time"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/observability"
)

// wrapped forwards the lifecycle hooks and Update to the inner processor.
type wrapped struct {
	inner Processor
}

func (w wrapped) Start(ctx context.Context, n *Node) error { return w.inner.Start(ctx, n) }

func (w wrapped) Stop(ctx context.Context, n *Node) error { return w.inner.Stop(ctx, n) }

func (w wrapped) Update(n *Node) {
	if u, ok := w.inner.(Updater); ok {
		u.Update(n)
	}
}

// outcome classifies a Process result for metrics and logs.
func outcome(err error) string {
	switch {
	case err == nil:
		return observability.StatusOK
	case errors.IsProcessingFailure(err):
		return observability.StatusFailed
	default:
		return observability.StatusUnexpected
	}
}

// WithMetrics wraps a Processor with node.process metric recording.
func WithMetrics(p Processor, metrics *observability.Metrics) Processor {
	return &metricsProcessor{wrapped: wrapped{p}, metrics: metrics}
}

type metricsProcessor struct {
	wrapped
	metrics *observability.Metrics
}

func (m *metricsProcessor) Process(ctx context.Context, n *Node) error {
	start := time.Now()
	err := m.inner.Process(ctx, n)
	m.metrics.RecordProcess(ctx, n.Name(), n.Kind(), outcome(err), time.Since(start))
	return err
}

// WithLogging wraps a Processor with debug logging of every call and its
// outcome. Lifecycle hooks are logged at info.
func WithLogging(p Processor, log *logger.Logger) Processor {
	return &loggingProcessor{wrapped: wrapped{p}, log: log}
}

type loggingProcessor struct {
	wrapped
	log *logger.Logger
}

func (l *loggingProcessor) Start(ctx context.Context, n *Node) error {
	err := l.inner.Start(ctx, n)
	l.lifecycle("node started", n, err)
	return err
}

func (l *loggingProcessor) Stop(ctx context.Context, n *Node) error {
	err := l.inner.Stop(ctx, n)
	l.lifecycle("node stopped", n, err)
	return err
}

func (l *loggingProcessor) lifecycle(msg string, n *Node, err error) {
	fields := logger.Fields(logger.FieldNode, n.Name(), logger.FieldKind, n.Kind())
	if err != nil {
		fields[logger.FieldError] = err.Error()
		l.log.Warn(msg, fields)
		return
	}
	l.log.Info(msg, fields)
}

func (l *loggingProcessor) Process(ctx context.Context, n *Node) error {
	start := time.Now()
	err := l.inner.Process(ctx, n)

	fields := map[string]interface{}{
		logger.FieldNode:     n.Name(),
		logger.FieldStatus:   outcome(err),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
	}
	l.log.Debug("node processed", fields)
	return err
}
