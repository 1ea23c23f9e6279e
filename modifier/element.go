// Package modifier implements the reconciled modifier node chain attached
// to each layout node.
//
// A modifier is an ordered, left-to-right sequence of Elements: declarative,
// value-equal descriptions. Each element advertises a capability bitmask and
// produces a Node, the attached stateful counterpart. Reconciliation pairs
// elements to nodes positionally by type, reusing nodes in place across
// recompositions.
package modifier

import "reflect"

// Capabilities is a bitmask of the dispatch surfaces a modifier advertises.
type Capabilities uint8

const (
	// CapLayout nodes wrap the child measurable during measurement.
	CapLayout Capabilities = 1 << iota
	// CapDraw nodes contribute draw commands at scene build.
	CapDraw
	// CapPointerInput nodes receive pointer events per dispatch pass.
	CapPointerInput
	// CapSemantics nodes merge into the semantics snapshot.
	CapSemantics
	// CapFocus nodes observe focus state transitions.
	CapFocus
)

// Has reports whether all bits in want are set.
func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

// Element is one link in a declarative modifier chain. Implementations are
// plain comparable structs unless they carry closures, in which case they
// report AlwaysUpdate.
type Element interface {
	// Capabilities returns the dispatch surfaces the produced node serves.
	Capabilities() Capabilities

	// Create builds the node for a fresh attach.
	Create() Node

	// Update reconfigures an existing node of the matching type.
	Update(n Node)

	// AlwaysUpdate reports whether Update must run even when the new
	// element compares equal to the previous one. Elements whose equality
	// is closure-based return true.
	AlwaysUpdate() bool
}

// Node is the attached, live counterpart of an Element. Implementations
// embed NodeBase and may additionally implement the per-capability
// interfaces (PointerInputNode, SemanticsNode, FocusNode, and the layout and
// draw interfaces declared by their consuming packages).
type Node interface {
	// OnAttach fires after the node joins a chain and has an owner.
	OnAttach()

	// OnDetach fires before the node leaves its chain; release resources
	// here.
	OnDetach()

	base() *NodeBase
}

// Owner is the layout element owning a chain. Nodes request selective
// invalidation through it; the bits are cheap sets consumed at the next tick.
type Owner interface {
	InvalidateDraw()
	InvalidateMeasure()
	InvalidateSemantics()
}

// NodeBase supplies the lifecycle plumbing every node embeds.
type NodeBase struct {
	owner    Owner
	attached bool
	epoch    uint64
}

func (b *NodeBase) base() *NodeBase { return b }

// Owner returns the layout element owning the chain, nil while detached.
func (b *NodeBase) Owner() Owner { return b.owner }

// OnAttach is a no-op default; override in the embedding node if needed.
func (b *NodeBase) OnAttach() {}

// OnDetach is a no-op default.
func (b *NodeBase) OnDetach() {}

// Attached reports whether the node is currently in a chain.
func (b *NodeBase) Attached() bool { return b.attached }

// Epoch returns the node's update epoch. It advances on every reconcile
// that updates the node, so stale cached work can be detected.
func (b *NodeBase) Epoch() uint64 { return b.epoch }

// InvalidateDraw requests a redraw of the owning element.
func (b *NodeBase) InvalidateDraw() {
	if b.owner != nil {
		b.owner.InvalidateDraw()
	}
}

// InvalidateMeasure requests a measure pass on the owning element.
func (b *NodeBase) InvalidateMeasure() {
	if b.owner != nil {
		b.owner.InvalidateMeasure()
	}
}

// InvalidateSemantics requests a semantics rebuild of the owning element.
func (b *NodeBase) InvalidateSemantics() {
	if b.owner != nil {
		b.owner.InvalidateSemantics()
	}
}

// elementsEquivalent reports whether the new element can skip Update on the
// reused node: same concrete type, not AlwaysUpdate, and shallow-equal.
func elementsEquivalent(old, new Element) bool {
	if new.AlwaysUpdate() {
		return false
	}
	vo, vn := reflect.ValueOf(old), reflect.ValueOf(new)
	if vo.Type() != vn.Type() || !vo.Comparable() {
		return false
	}
	return vo.Equal(vn)
}

// sameElementType reports whether two elements share a concrete type, the
// reuse criterion for reconciliation.
func sameElementType(a, b Element) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}
