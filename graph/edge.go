package graph

// Edge is a directed data dependency: dest consumes what source produces.
// It owns neither endpoint.
type Edge struct {
	source *Node
	dest   *Node
}

func (*Edge) item() {}

func (e *Edge) Source() *Node { return e.source }

func (e *Edge) Dest() *Node { return e.dest }

func (e *Edge) String() string { return e.source.name + " -> " + e.dest.name }
