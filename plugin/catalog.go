package plugin

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
)

type entry struct {
	component Component
	plugin    string
}

// Catalog holds the components installed from plugins.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	log     *logger.Logger
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]entry),
		log:     logger.Get("catalog"),
	}
}

// Install adds the components of every plugin. A component that is invalid
// or whose name is taken is skipped and reported; the rest still install.
func (c *Catalog) Install(plugins ...Plugin) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, p := range plugins {
		installed := 0
		for _, comp := range p.Components() {
			if err := c.add(p.Name(), comp); err != nil {
				errs = append(errs, fmt.Errorf("plugin %s: %w", p.Name(), err))
				continue
			}
			installed++
		}
		c.log.Info("plugin installed", logger.Fields(
			"plugin", p.Name(),
			logger.FieldCount, installed,
		))
	}
	return stderrors.Join(errs...)
}

func (c *Catalog) add(pluginName string, comp Component) error {
	if comp.Name == "" {
		return errors.MissingField("name")
	}
	if comp.New == nil {
		return errors.InvalidInput("new", "component "+comp.Name+" has no factory")
	}
	if prev, ok := c.entries[comp.Name]; ok {
		return errors.AlreadyExists("component", comp.Name).WithDetail("plugin", prev.plugin)
	}
	c.entries[comp.Name] = entry{component: comp, plugin: pluginName}
	c.order = append(c.order, comp.Name)
	return nil
}

// Component looks a component up by name.
func (c *Catalog) Component(name string) (Component, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Component{}, errors.NotFound("component", name)
	}
	return e.component, nil
}

// Names returns component names in installation order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ByToolBar returns the components offered on a toolbar.
func (c *Catalog) ByToolBar(tb ToolBar) []Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Component
	for _, name := range c.order {
		if comp := c.entries[name].component; comp.ToolBar == tb {
			out = append(out, comp)
		}
	}
	return out
}

// NewNode creates a node of the named component. The node is not added to
// any scene.
func (c *Catalog) NewNode(component, displayName string, deps Deps) (*graph.Node, error) {
	comp, err := c.Component(component)
	if err != nil {
		return nil, err
	}
	proc, err := comp.New(deps)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", component, err)
	}
	if deps.Metrics != nil {
		proc = graph.WithMetrics(proc, deps.Metrics)
	}
	if deps.Logger != nil {
		proc = graph.WithLogging(proc, deps.Logger.WithFields(logger.Fields(logger.FieldKind, component)))
	}
	if displayName == "" {
		displayName = component
	}
	return graph.NewNode(displayName, component, proc), nil
}
