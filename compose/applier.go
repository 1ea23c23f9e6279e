package compose

import (
	"github.com/agiangrant/reflow/layout"
)

// Applier owns the layout nodes a composition emits, keyed by node id. The
// slot stream stores only ids; geometry and modifier chains live here.
type Applier struct {
	root  *layout.Node
	nodes map[layout.NodeID]*layout.Node
}

// NewApplier wraps the given root node. The root itself is not arena-owned;
// it belongs to the host.
func NewApplier(root *layout.Node) *Applier {
	return &Applier{
		root:  root,
		nodes: make(map[layout.NodeID]*layout.Node),
	}
}

// Root returns the host-owned root node.
func (a *Applier) Root() *layout.Node { return a.root }

// Get resolves a node id, or nil if the node has been released.
func (a *Applier) Get(id layout.NodeID) *layout.Node {
	if id == a.root.ID() {
		return a.root
	}
	return a.nodes[id]
}

// Create allocates a fresh node with the given policy.
func (a *Applier) Create(policy layout.MeasurePolicy) *layout.Node {
	n := layout.NewNode(policy)
	a.nodes[n.ID()] = n
	return n
}

// Release detaches the node's modifier chain and drops it from the arena.
// Called from the gap sweep when the owning group is discarded.
func (a *Applier) Release(id layout.NodeID) {
	n, ok := a.nodes[id]
	if !ok {
		return
	}
	n.Detach()
	delete(a.nodes, id)
}

// Len reports how many arena nodes are live.
func (a *Applier) Len() int { return len(a.nodes) }
