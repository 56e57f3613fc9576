package graph

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/ocvflow/errors"
)

// Scene is the set of live items the host owns. It is safe for concurrent
// use; the runner reads it through Items at the start of every run.
type Scene struct {
	mu    sync.RWMutex
	items []Item
	nodes map[uuid.UUID]*Node
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{nodes: make(map[uuid.UUID]*Node)}
}

// AddNode adds a node to the scene.
func (s *Scene) AddNode(n *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[n.id]; ok {
		return errors.AlreadyExists("node", n.id.String())
	}
	s.nodes[n.id] = n
	s.items = append(s.items, n)
	return nil
}

// Connect adds an edge from source to dest. Both nodes must be in the scene;
// self loops and duplicate edges are rejected.
func (s *Scene) Connect(source, dest *Node) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if source == dest {
		return nil, errors.InvalidInput("dest", "a node cannot consume its own output")
	}
	for _, n := range []*Node{source, dest} {
		if s.nodes[n.id] != n {
			return nil, errors.NotFound("node", n.id.String())
		}
	}
	for _, e := range source.Edges() {
		if e.source == source && e.dest == dest {
			return nil, errors.AlreadyExists("edge", e.String())
		}
	}

	e := &Edge{source: source, dest: dest}
	source.attach(e)
	dest.attach(e)
	s.items = append(s.items, e)
	return e, nil
}

// Disconnect removes an edge from the scene and from both endpoints.
func (s *Scene) Disconnect(e *Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.removeItem(e) {
		return errors.NotFound("edge", e.String())
	}
	e.source.detach(e)
	e.dest.detach(e)
	return nil
}

// RemoveNode removes a node and every edge incident on it. A run in
// progress keeps its order; the next run no longer sees the node.
func (s *Scene) RemoveNode(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return errors.NotFound("node", id.String())
	}
	for _, e := range n.Edges() {
		s.removeItem(e)
		e.source.detach(e)
		e.dest.detach(e)
	}
	s.removeItem(n)
	delete(s.nodes, id)
	return nil
}

func (s *Scene) removeItem(it Item) bool {
	for i, x := range s.items {
		if x == it {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the current items in insertion order.
func (s *Scene) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Nodes returns the nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Node, 0, len(s.nodes))
	for _, it := range s.items {
		if n, ok := it.(*Node); ok {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns the edges in insertion order.
func (s *Scene) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Edge
	for _, it := range s.items {
		if e, ok := it.(*Edge); ok {
			out = append(out, e)
		}
	}
	return out
}

// Node looks a node up by ID.
func (s *Scene) Node(id uuid.UUID) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// NodeByName returns the first node with the given display name.
func (s *Scene) NodeByName(name string) (*Node, bool) {
	for _, n := range s.Nodes() {
		if n.name == name {
			return n, true
		}
	}
	return nil, false
}
