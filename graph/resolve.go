package graph

// Resolution is the result of Resolve.
type Resolution struct {
	// Order lists every node once, sources before their consumers.
	Order []*Node
	// Violations lists the edges Order could not respect. It is empty for
	// acyclic graphs; each cycle contributes at least one edge.
	Violations []*Edge
}

// Resolve computes an execution order from the given items.
//
// Nodes are visited depth first in item order. Before a node is appended,
// the source of every edge ending at it is resolved, in the node's edge
// order. Sources reachable through edges are included even when they are
// not in items themselves; non-node items are ignored.
//
// A source that is still on the visit stack closes a cycle. It is not
// re-entered and the edge is reported in Violations, so resolution always
// terminates with each node exactly once.
func Resolve(items []Item) Resolution {
	r := &resolver{
		ordered:  make(map[*Node]bool),
		visiting: make(map[*Node]bool),
	}
	for _, it := range items {
		if n, ok := it.(*Node); ok {
			r.visit(n)
		}
	}
	return r.res
}

type resolver struct {
	ordered  map[*Node]bool
	visiting map[*Node]bool
	res      Resolution
}

func (r *resolver) visit(n *Node) {
	if r.ordered[n] {
		return
	}
	r.visiting[n] = true
	for _, e := range n.Edges() {
		if e.dest != n || r.ordered[e.source] {
			continue
		}
		if r.visiting[e.source] {
			r.res.Violations = append(r.res.Violations, e)
			continue
		}
		r.visit(e.source)
	}
	delete(r.visiting, n)
	r.ordered[n] = true
	r.res.Order = append(r.res.Order, n)
}
