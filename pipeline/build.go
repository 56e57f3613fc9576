package pipeline

import (
	"fmt"

	"github.com/kbukum/ocvflow/errors"
	"github.com/kbukum/ocvflow/graph"
	"github.com/kbukum/ocvflow/logger"
	"github.com/kbukum/ocvflow/plugin"
)

// Builder turns definitions into scene contents.
type Builder struct {
	Catalog *plugin.Catalog
	// Loader resolves includes; definitions without includes need none.
	Loader Loader
	// Deps is passed to every factory, with Params replaced per node.
	Deps plugin.Deps
}

// Build creates the definition's nodes and edges in scene and returns the
// nodes by name. On error nothing is left in the scene.
func (b *Builder) Build(def *Definition, scene *graph.Scene) (map[string]*graph.Node, error) {
	defs, err := b.flatten(def)
	if err != nil {
		return nil, err
	}

	built := make(map[string]*graph.Node, len(defs))
	var added []*graph.Node
	rollback := func() {
		for _, n := range added {
			_ = scene.RemoveNode(n.ID())
		}
	}

	for _, nd := range defs {
		deps := b.Deps
		deps.Params = nd.Params
		n, err := b.Catalog.NewNode(nd.Component, nd.Name, deps)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("pipeline %s: node %s: %w", def.Name, nd.Name, err)
		}
		if err := scene.AddNode(n); err != nil {
			rollback()
			return nil, err
		}
		added = append(added, n)
		built[nd.Name] = n
	}

	for _, nd := range defs {
		for _, src := range nd.Sources {
			from, ok := built[src]
			if !ok {
				rollback()
				return nil, errors.NotFound("source node", src).WithDetail("node", nd.Name)
			}
			if _, err := scene.Connect(from, built[nd.Name]); err != nil {
				rollback()
				return nil, fmt.Errorf("pipeline %s: connecting %s -> %s: %w", def.Name, src, nd.Name, err)
			}
		}
	}

	logger.Get("pipeline").Info("pipeline built", logger.Fields(
		"pipeline", def.Name,
		logger.FieldCount, len(defs),
	))
	return built, nil
}

// flatten resolves includes depth first. Included nodes come first; a name
// seen before keeps its first definition.
func (b *Builder) flatten(def *Definition) ([]NodeDef, error) {
	f := &flattener{loader: b.Loader, stack: map[string]bool{}, done: map[string]bool{}, seen: map[string]bool{}}
	if err := f.walk(def); err != nil {
		return nil, err
	}
	return f.out, nil
}

type flattener struct {
	loader Loader
	stack  map[string]bool
	done   map[string]bool
	seen   map[string]bool
	out    []NodeDef
}

func (f *flattener) walk(def *Definition) error {
	if f.stack[def.Name] {
		return errors.Conflict(fmt.Sprintf("circular include of pipeline %q", def.Name))
	}
	f.stack[def.Name] = true
	defer delete(f.stack, def.Name)

	for _, name := range def.Includes {
		if f.done[name] {
			continue
		}
		if f.loader == nil {
			return errors.InvalidInput("includes", "no loader configured for "+name)
		}
		sub, err := f.loader.Load(name)
		if err != nil {
			return fmt.Errorf("pipeline %s: loading include %s: %w", def.Name, name, err)
		}
		if err := f.walk(sub); err != nil {
			return err
		}
	}

	for _, nd := range def.Nodes {
		if f.seen[nd.Name] {
			continue
		}
		f.seen[nd.Name] = true
		f.out = append(f.out, nd)
	}
	f.done[def.Name] = true
	return nil
}
