package runner

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/ocvflow/graph"
)

// Tick is emitted on every throttled refresh.
type Tick struct {
	RunID uuid.UUID   `json:"run_id"`
	Seq   uint64      `json:"seq"`
	At    time.Time   `json:"at"`
	Nodes []NodeState `json:"nodes"`
}

// NodeState is a read-only snapshot of a node's state slots.
type NodeState struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Error      string    `json:"error,omitempty"`
	HasError   bool      `json:"has_error"`
	LastUpdate time.Time `json:"last_update"`
	Running    bool      `json:"running"`
}

// Snapshot reads a node's state slots without taking its processing lock.
func Snapshot(n *graph.Node) NodeState {
	msg, hasErr := n.Error()
	return NodeState{
		ID:         n.ID(),
		Name:       n.Name(),
		Kind:       n.Kind(),
		Error:      msg,
		HasError:   hasErr,
		LastUpdate: n.LastUpdate(),
		Running:    n.Running(),
	}
}

func snapshots(nodes []*graph.Node) []NodeState {
	out := make([]NodeState, len(nodes))
	for i, n := range nodes {
		out[i] = Snapshot(n)
	}
	return out
}
