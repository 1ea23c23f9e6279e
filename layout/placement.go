package layout

import (
	"sort"

	"github.com/agiangrant/reflow/modifier"
)

// Placement is one record the renderer consumes: a node's window position
// and z ordering. Z ties break by discovery order (the sort is stable).
type Placement struct {
	NodeID NodeID
	X, Y   float32
	Z      int
}

// CollectPlacements walks the measured tree from root, resolving each
// node's window position from its parent position, the parent's content
// offset, and the node's own placement offset. The result is sorted by z
// ascending, stable in discovery order.
//
// The walk also stamps every node's absolute position for hit-region
// construction.
func CollectPlacements(root *Node) []Placement {
	var out []Placement
	collect(root, 0, 0, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

func collect(n *Node, parentX, parentY float32, out *[]Placement) {
	x := parentX + n.offset.X
	y := parentY + n.offset.Y
	n.absX, n.absY = x, y
	*out = append(*out, Placement{NodeID: n.id, X: x, Y: y, Z: n.zIndex})

	contentX := x + n.contentOffset.X
	contentY := y + n.contentOffset.Y
	for _, child := range n.children {
		collect(child, contentX, contentY, out)
	}
}

// Semantics builds the node's merged semantics configuration from its
// chain, outermost node first.
func (n *Node) Semantics() *modifier.SemanticsConfiguration {
	cfg := &modifier.SemanticsConfiguration{}
	for _, sn := range n.chain.SemanticsNodes() {
		if s, ok := sn.(modifier.SemanticsNode); ok {
			s.ApplySemantics(cfg)
		}
	}
	return cfg
}
