package graph

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Attribute keys of the node state slots.
const (
	// ErrorData holds the message of the last recorded failure.
	ErrorData = "error"
	// LastUpdateData holds the time.Time of the last refresh tick.
	LastUpdateData = "last_update"
	// OutputData holds the value the node produced in its last Process call.
	OutputData = "output"
)

// Item is anything a Scene holds: *Node or *Edge.
type Item interface {
	item()
}

// Node is a unit of processing work with identity, incident edges, state
// slots and the processor that does the work.
type Node struct {
	id   uuid.UUID
	name string
	kind string
	proc Processor

	// lock is the processing bracket; see Acquire.
	lock sync.Mutex

	edgesMu sync.RWMutex
	edges   []*Edge

	dataMu sync.RWMutex
	data   map[string]any

	running atomic.Bool

	hooksMu sync.RWMutex
	hooks   []func(*Node)
}

// NewNode creates a node. kind names the component that produced it; proc
// may be nil for nodes that only carry structure.
func NewNode(name, kind string, proc Processor) *Node {
	if proc == nil {
		proc = nopProcessor{}
	}
	return &Node{
		id:   uuid.New(),
		name: name,
		kind: kind,
		proc: proc,
		data: make(map[string]any),
	}
}

func (*Node) item() {}

func (n *Node) ID() uuid.UUID { return n.id }

func (n *Node) Name() string { return n.name }

func (n *Node) Kind() string { return n.kind }

func (n *Node) String() string { return n.name }

// Processor returns the processor the node delegates to.
func (n *Node) Processor() Processor { return n.proc }

// Edges returns the incident edges in connection order, both directions.
func (n *Node) Edges() []*Edge {
	n.edgesMu.RLock()
	defer n.edgesMu.RUnlock()
	out := make([]*Edge, len(n.edges))
	copy(out, n.edges)
	return out
}

// Sources returns the upstream nodes in edge order.
func (n *Node) Sources() []*Node {
	n.edgesMu.RLock()
	defer n.edgesMu.RUnlock()
	var out []*Node
	for _, e := range n.edges {
		if e.dest == n {
			out = append(out, e.source)
		}
	}
	return out
}

func (n *Node) attach(e *Edge) {
	n.edgesMu.Lock()
	n.edges = append(n.edges, e)
	n.edgesMu.Unlock()
}

func (n *Node) detach(e *Edge) {
	n.edgesMu.Lock()
	defer n.edgesMu.Unlock()
	for i, x := range n.edges {
		if x == e {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			return
		}
	}
}

// Data returns an attribute value. Readers never need the processing lock.
func (n *Node) Data(key string) (any, bool) {
	n.dataMu.RLock()
	defer n.dataMu.RUnlock()
	v, ok := n.data[key]
	return v, ok
}

// SetData sets an attribute; a nil value removes it.
func (n *Node) SetData(key string, value any) {
	n.dataMu.Lock()
	defer n.dataMu.Unlock()
	if value == nil {
		delete(n.data, key)
		return
	}
	n.data[key] = value
}

// Error returns the error slot.
func (n *Node) Error() (string, bool) {
	v, ok := n.Data(ErrorData)
	if !ok {
		return "", false
	}
	msg, _ := v.(string)
	return msg, true
}

func (n *Node) SetError(msg string) { n.SetData(ErrorData, msg) }

func (n *Node) ClearError() { n.SetData(ErrorData, nil) }

// LastUpdate returns the time of the last refresh tick, zero before the first.
func (n *Node) LastUpdate() time.Time {
	v, _ := n.Data(LastUpdateData)
	t, _ := v.(time.Time)
	return t
}

func (n *Node) SetLastUpdate(t time.Time) { n.SetData(LastUpdateData, t) }

// Output returns the value produced by the last Process call.
func (n *Node) Output() any {
	v, _ := n.Data(OutputData)
	return v
}

func (n *Node) SetOutput(v any) { n.SetData(OutputData, v) }

// SourceOutputs returns the outputs of the upstream nodes in edge order.
// Entries are nil for sources that produced nothing yet.
func (n *Node) SourceOutputs() []any {
	sources := n.Sources()
	out := make([]any, len(sources))
	for i, s := range sources {
		out[i] = s.Output()
	}
	return out
}

// Acquire takes the node's exclusive lock. The runner holds it around every
// Process call; anything else mutating node data while a run is active must
// take it too.
func (n *Node) Acquire() { n.lock.Lock() }

// Release gives the lock back.
func (n *Node) Release() { n.lock.Unlock() }

// Running reports whether the node is between Start and Stop of a run.
func (n *Node) Running() bool { return n.running.Load() }

// Start runs the processor's setup hook and marks the node running.
func (n *Node) Start(ctx context.Context) error {
	n.running.Store(true)
	return n.proc.Start(ctx, n)
}

// Process performs one unit of work. Callers hold the lock.
func (n *Node) Process(ctx context.Context) error {
	return n.proc.Process(ctx, n)
}

// Stop runs the processor's teardown hook and clears the running mark.
func (n *Node) Stop(ctx context.Context) error {
	defer n.running.Store(false)
	return n.proc.Stop(ctx, n)
}

// OnUpdate registers a callback run by Update. Rendering adapters use it to
// repaint; they keep a reference to the node and never own it.
func (n *Node) OnUpdate(fn func(*Node)) {
	n.hooksMu.Lock()
	n.hooks = append(n.hooks, fn)
	n.hooksMu.Unlock()
}

// Update requests a visual refresh: the processor's Update if it has one,
// then every registered callback.
func (n *Node) Update() {
	if u, ok := n.proc.(Updater); ok {
		u.Update(n)
	}
	n.hooksMu.RLock()
	hooks := make([]func(*Node), len(n.hooks))
	copy(hooks, n.hooks)
	n.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(n)
	}
}
