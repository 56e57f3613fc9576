package plugin

import (
	"fmt"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/observability"
)

// Deps is the context handed to component factories.
type Deps struct {
	Logger *logger.Logger
	// Metrics, when set, wraps created processors with node.process metrics.
	Metrics *observability.Metrics
	// Params are per-node settings, usually from a pipeline definition.
	Params map[string]any
}

// Int reads an integer parameter, returning def when it is absent.
func (d Deps) Int(key string, def int) (int, error) {
	v, ok := d.Params[key]
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x == float64(int(x)) {
			return int(x), nil
		}
	}
	return 0, errors.InvalidInput(key, fmt.Sprintf("expected an integer, got %v", v))
}

// Factory creates the processor behind a new node.
type Factory func(deps Deps) (graph.Processor, error)

// Component describes one kind of node a plugin provides.
type Component struct {
	// Name is the catalog key and the Kind of nodes it creates.
	Name        string
	ToolBar     ToolBar
	Description string
	New         Factory
}

// Plugin produces named components.
type Plugin interface {
	Name() string
	Components() []Component
}

// Static is a Plugin backed by a fixed component list.
type Static struct {
	name       string
	components []Component
}

// New returns a static plugin.
func New(name string, components ...Component) *Static {
	return &Static{name: name, components: components}
}

func (s *Static) Name() string { return s.name }

func (s *Static) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}
