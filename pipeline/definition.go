package pipeline

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/ocvflow/validation"
)

// Definition is a YAML graph definition.
type Definition struct {
	Name string `yaml:"name"`
	// Includes lists definitions, by name, whose nodes come before these.
	Includes []string  `yaml:"includes,omitempty"`
	Nodes    []NodeDef `yaml:"nodes"`
}

// NodeDef defines one node.
type NodeDef struct {
	// Name is the node's display name, unique across the built graph.
	Name string `yaml:"name"`
	// Component is the catalog key the node is created from.
	Component string `yaml:"component"`
	// Sources names the upstream nodes, in edge order.
	Sources []string       `yaml:"sources,omitempty"`
	Params  map[string]any `yaml:"params,omitempty"`
}

// Parse decodes and validates a definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("pipeline: parsing definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition on its own. References to nodes from
// includes are checked when building.
func (d *Definition) Validate() error {
	v := validation.New()
	v.Required("name", d.Name)
	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		field := fmt.Sprintf("nodes[%d]", i)
		v.Required(field+".name", n.Name).
			Unique(field+".name", n.Name, seen).
			Required(field+".component", n.Component)
		for j, src := range n.Sources {
			v.Custom(src != n.Name, fmt.Sprintf("%s.sources[%d]", field, j), "a node cannot read from itself")
		}
	}
	return v.Validate()
}
