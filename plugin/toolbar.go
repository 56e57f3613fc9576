package plugin

import (
	"strings"

	"github.com/kbukum/ocvflow/errors"
)

// ToolBar is the host toolbar a component is offered on.
type ToolBar int

const (
	Files ToolBar = iota
	Sources
	Processors
	Connectors
	Build
	Window
)

var toolBarNames = [...]string{"Files", "Sources", "Processors", "Connectors", "Build", "Window"}

func (t ToolBar) String() string {
	if t < 0 || int(t) >= len(toolBarNames) {
		return "Unknown"
	}
	return toolBarNames[t]
}

// ToolBars lists every toolbar in display order.
func ToolBars() []ToolBar {
	return []ToolBar{Files, Sources, Processors, Connectors, Build, Window}
}

// ParseToolBar parses a toolbar name, ignoring case.
func ParseToolBar(s string) (ToolBar, error) {
	for i, name := range toolBarNames {
		if strings.EqualFold(s, name) {
			return ToolBar(i), nil
		}
	}
	return 0, errors.InvalidInput("toolbar", "unknown toolbar "+s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ToolBar) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ToolBar) UnmarshalText(b []byte) error {
	v, err := ParseToolBar(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
