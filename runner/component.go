package runner

import (
	"context"
	"fmt"

	"github.com/kbukum/ocvflow/component"
)

// Lifecycle adapts a Runner to the host's component registry. The host
// start begins a run only when AutoStart is set; the host stop always ends
// the current run.
type Lifecycle struct {
	r *Runner
}

var (
	_ component.Component   = (*Lifecycle)(nil)
	_ component.Describable = (*Lifecycle)(nil)
)

// Component returns the runner's lifecycle adapter.
func (r *Runner) Component() *Lifecycle { return &Lifecycle{r: r} }

func (l *Lifecycle) Name() string { return "runner" }

func (l *Lifecycle) Start(ctx context.Context) error {
	if !l.r.cfg.AutoStart {
		return nil
	}
	return l.r.Start(ctx)
}

func (l *Lifecycle) Stop(ctx context.Context) error {
	return l.r.Stop(ctx)
}

// Health is degraded while any node in the current run carries an error.
func (l *Lifecycle) Health(_ context.Context) component.Health {
	h := component.Health{Name: l.Name(), Status: component.StatusHealthy, Message: l.r.State().String()}
	failing := 0
	for _, n := range l.r.Nodes() {
		if n.HasError {
			failing++
		}
	}
	if failing > 0 {
		h.Status = component.StatusDegraded
		h.Message = fmt.Sprintf("%s, %d node(s) failing", h.Message, failing)
	}
	return h
}

func (l *Lifecycle) Describe() component.Description {
	cfg := l.r.cfg
	return component.Description{
		Name: "Runner",
		Type: "runner",
		Details: fmt.Sprintf("refresh=%s stop_timeout=%s failures=%s autostart=%t",
			cfg.RefreshInterval, cfg.StopTimeout, cfg.UnexpectedFailures, cfg.AutoStart),
	}
}
