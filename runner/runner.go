package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/observability"
)

// State is the runner's lifecycle state.
type State int32

const (
	Idle State = iota
	Running
	StopRequested
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case StopRequested:
		return "stop_requested"
	default:
		return "unknown"
	}
}

// Source supplies the graph items for a run. *graph.Scene satisfies it.
type Source interface {
	Items() []graph.Item
}

// Runner executes a resolved graph on a single background goroutine until
// stopped.
type Runner struct {
	source Source
	cfg    Config

	log       *logger.Logger
	onTick    []func(Tick)
	onFailure func(*graph.Node, error)
	metrics   *observability.Metrics
	tracing   bool
	now       func() time.Time

	// mu serializes Start and Stop.
	mu    sync.Mutex
	state atomic.Int32
	// running is the cooperative stop flag read by the worker.
	running atomic.Bool
	stopCh  chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc

	runMu sync.RWMutex
	runID uuid.UUID
	order []*graph.Node
	seq   uint64
}

// New creates a runner over source. cfg gets its defaults applied.
func New(source Source, cfg Config, opts ...Option) *Runner {
	cfg.ApplyDefaults()
	r := &Runner{
		source: source,
		cfg:    cfg,
		log:    logger.Get("runner"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective configuration.
func (r *Runner) Config() Config { return r.cfg }

// State returns the current lifecycle state.
func (r *Runner) State() State { return State(r.state.Load()) }

// Running reports whether a run is active and not asked to stop.
func (r *Runner) Running() bool { return r.running.Load() }

// RunID returns the ID of the current run, uuid.Nil when idle.
func (r *Runner) RunID() uuid.UUID {
	r.runMu.RLock()
	defer r.runMu.RUnlock()
	return r.runID
}

// Order returns the execution order of the current run, nil when idle or
// before the worker has resolved it.
func (r *Runner) Order() []*graph.Node {
	r.runMu.RLock()
	defer r.runMu.RUnlock()
	if r.order == nil {
		return nil
	}
	out := make([]*graph.Node, len(r.order))
	copy(out, r.order)
	return out
}

// Nodes returns snapshots of the nodes in the current order.
func (r *Runner) Nodes() []NodeState {
	return snapshots(r.Order())
}

// Start begins a run. It returns immediately; resolution and the node
// Start hooks happen on the worker. Starting an active run does nothing.
//
// ctx supplies values to the run (trace context, loggers) but not its
// lifetime: only Stop ends a run.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State() != Idle {
		return nil
	}

	runID := uuid.New()
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	runCtx = logger.ContextWithRunID(runCtx, runID.String())

	r.runMu.Lock()
	r.runID = runID
	r.order = nil
	r.seq = 0
	r.runMu.Unlock()

	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	r.cancel = cancel
	r.running.Store(true)
	r.state.Store(int32(Running))

	r.log.Info("run starting", logger.Fields(logger.FieldRunID, runID.String()))
	go r.work(runCtx, r.stopCh, r.done)
	return nil
}

// Stop ends the run. It clears the running flag and waits up to
// StopTimeout for the worker to finish its iteration and call every node's
// Stop hook. If the worker is still busy then, the run's context is
// cancelled so in-flight Process calls can abort, and Stop waits for the
// worker to exit. Stop on an idle runner does nothing. It always returns nil.
//
// ctx does not shorten the cooperative wait: a caller that gives up early
// must not abort a well-behaved iteration mid-frame.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State() == Idle {
		return nil
	}

	r.state.Store(int32(StopRequested))
	r.running.Store(false)
	close(r.stopCh)

	timer := time.NewTimer(r.cfg.StopTimeout)
	defer timer.Stop()
	select {
	case <-r.done:
	case <-timer.C:
		r.forceStop()
	}

	r.cancel()
	r.runMu.Lock()
	runID := r.runID
	r.runID = uuid.Nil
	r.order = nil
	r.runMu.Unlock()
	r.state.Store(int32(Idle))

	r.log.WithContext(ctx).Info("run stopped", logger.Fields(logger.FieldRunID, runID.String()))
	return nil
}

func (r *Runner) forceStop() {
	r.log.Warn("run did not stop in time, cancelling in-flight work", logger.Fields(
		"timeout", r.cfg.StopTimeout.String(),
	))
	r.cancel()
	<-r.done
}

// work is the run's worker goroutine.
func (r *Runner) work(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	log := r.log.WithContext(ctx)

	if r.metrics != nil {
		r.metrics.RunStarted(ctx)
		defer r.metrics.RunStopped(ctx)
	}

	res := graph.Resolve(r.source.Items())
	for _, e := range res.Violations {
		log.Warn("cycle detected, edge not respected by order", logger.Fields(
			"source", e.Source().Name(),
			"dest", e.Dest().Name(),
		))
	}
	order := res.Order
	r.runMu.Lock()
	r.order = order
	r.runMu.Unlock()
	log.Info("run started", logger.Fields(logger.FieldCount, len(order)))

	for _, n := range order {
		n.ClearError()
		r.handle(ctx, n, r.invoke(ctx, n, observability.SpanNodeStart, n.Start))
	}

	lastTick := r.now()
	for r.running.Load() && ctx.Err() == nil {
		for _, n := range order {
			if ctx.Err() != nil {
				break
			}
			r.process(ctx, n)
		}

		now := r.now()
		if now.Sub(lastTick) >= r.cfg.RefreshInterval {
			lastTick = now
			r.tick(ctx, order, now)
			r.pause(ctx, stopCh, r.cfg.throttle(len(order)))
		}
	}

	for _, n := range order {
		r.handle(ctx, n, r.invoke(ctx, n, observability.SpanNodeStop, n.Stop))
	}
}

// process runs one node inside its lock and the failure boundary.
func (r *Runner) process(ctx context.Context, n *graph.Node) {
	n.Acquire()
	defer n.Release()
	r.handle(ctx, n, r.invoke(ctx, n, observability.SpanNodeProcess, n.Process))
}

// invoke calls a node hook, turning a panic into an unexpected failure.
func (r *Runner) invoke(ctx context.Context, n *graph.Node, span string, fn func(context.Context) error) (err error) {
	if r.tracing {
		var sp trace.Span
		ctx, sp = observability.StartSpan(ctx, span)
		observability.SetSpanAttribute(ctx, observability.AttrNodeName, n.Name())
		observability.SetSpanAttribute(ctx, observability.AttrNodeKind, n.Kind())
		observability.SetSpanAttribute(ctx, observability.AttrNodeID, n.ID().String())
		defer func() {
			status := observability.StatusOK
			if err != nil {
				status = observability.StatusUnexpected
				if errors.IsProcessingFailure(err) {
					status = observability.StatusFailed
				}
				observability.SetSpanError(ctx, err)
			}
			observability.SetSpanAttribute(ctx, observability.AttrStatus, status)
			sp.End()
		}()
	}
	defer func() {
		if v := recover(); v != nil {
			err = errors.FromPanic(v)
		}
	}()
	return fn(ctx)
}

// handle classifies a hook result. Recoverable failures go to the node's
// error slot; anything else follows the configured policy. Nothing here
// ends the run.
func (r *Runner) handle(ctx context.Context, n *graph.Node, err error) {
	if err == nil {
		return
	}
	if appErr, ok := errors.AsAppError(err); ok && errors.IsProcessingFailure(err) {
		n.SetError(appErr.Message)
		if r.metrics != nil {
			r.metrics.RecordFailure(ctx, observability.StatusFailed, n.Name())
		}
		return
	}

	if r.metrics != nil {
		r.metrics.RecordFailure(ctx, observability.StatusUnexpected, n.Name())
	}
	switch r.cfg.UnexpectedFailures {
	case PolicySwallow:
		return
	case PolicyRecord:
		n.SetError(err.Error())
	}
	r.log.WithContext(ctx).Warn("unexpected node failure", logger.Fields(
		logger.FieldNode, n.Name(),
		logger.FieldKind, n.Kind(),
		logger.FieldError, err.Error(),
	))
	if r.onFailure != nil {
		r.onFailure(n, err)
	}
}

// tick stamps every node, asks it to refresh, and emits a Tick.
func (r *Runner) tick(ctx context.Context, order []*graph.Node, now time.Time) {
	for _, n := range order {
		n.SetLastUpdate(now)
		r.update(ctx, n)
	}

	r.runMu.Lock()
	r.seq++
	t := Tick{RunID: r.runID, Seq: r.seq, At: now}
	r.runMu.Unlock()
	t.Nodes = snapshots(order)

	if r.metrics != nil {
		r.metrics.RecordTick(ctx)
	}
	for _, fn := range r.onTick {
		fn(t)
	}
}

// update runs a node's refresh inside its lock; a panicking refresh is an
// unexpected failure like any other.
func (r *Runner) update(ctx context.Context, n *graph.Node) {
	n.Acquire()
	defer n.Release()
	err := func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = errors.FromPanic(v)
			}
		}()
		n.Update()
		return nil
	}()
	r.handle(ctx, n, err)
}

// pause sleeps for d unless the run is stopped or cancelled first.
func (r *Runner) pause(ctx context.Context, stopCh <-chan struct{}, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-stopCh:
	case <-ctx.Done():
	}
}
