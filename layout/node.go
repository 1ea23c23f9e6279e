package layout

import (
	"log"
	"math"
	"sync/atomic"

	"github.com/agiangrant/reflow/modifier"
)

// NodeID identifies an applier-managed layout node. IDs are unique within
// one composition and never reused across compositions.
type NodeID uint64

var nextNodeID atomic.Uint64

// NewNodeID allocates a fresh node id.
func NewNodeID() NodeID {
	return NodeID(nextNodeID.Add(1))
}

// InvalidationBits are the cheap per-node dirty flags modifier nodes raise;
// the composition and layout engines consume them at the next tick.
type InvalidationBits uint8

const (
	BitMeasure InvalidationBits = 1 << iota
	BitDraw
	BitSemantics
)

// Node is the composed tree's unit of measurement and placement. It owns a
// modifier chain and an ordered child list, measures through its policy
// under parent constraints, and caches measurement results keyed by an
// epoch bumped on any input change.
type Node struct {
	id       NodeID
	parent   *Node
	children []*Node

	policy MeasurePolicy
	chain  *modifier.Chain

	// Layout hints for the parent's policy, folded from the chain's
	// parent-data modifiers.
	parentData any

	zIndex int

	// Computed by the last measure/place pass.
	size          Size
	offset        Offset // relative to parent's content origin
	contentOffset Offset // accumulated from layout modifiers (padding etc.)
	absX, absY    float32

	// Epoch-keyed caches. Entries from older epochs are lazily discarded.
	epoch          uint64
	measureCache   []measureCacheEntry
	intrinsicCache []intrinsicCacheEntry

	needsMeasure bool
	dirty        InvalidationBits

	// onInvalidate is installed by the applier so invalidations reach the
	// scheduler without the layout package knowing about it.
	onInvalidate func(bits InvalidationBits)
}

type measureCacheEntry struct {
	constraints Constraints
	size        Size
	epoch       uint64
}

type intrinsicCacheEntry struct {
	kind  IntrinsicKind
	arg   float32
	value float32
	epoch uint64
}

const measureCacheCap = 4

// NewNode creates a detached node with a fresh id and an empty chain.
func NewNode(policy MeasurePolicy) *Node {
	n := &Node{
		id:           NewNodeID(),
		policy:       policy,
		needsMeasure: true,
	}
	n.chain = modifier.NewChain(n)
	return n
}

// ID returns the node's id.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the node's parent, nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered child list. Callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// Chain returns the node's modifier chain.
func (n *Node) Chain() *modifier.Chain { return n.chain }

// Size returns the size from the last measure pass.
func (n *Node) Size() Size { return n.size }

// Offset returns the placement offset relative to the parent's content
// origin, set by the parent's measure policy.
func (n *Node) Offset() Offset { return n.offset }

// ContentOffset returns the accumulated inset the modifier chain applies to
// the node's children, relative to the node's own origin.
func (n *Node) ContentOffset() Offset { return n.contentOffset }

// AbsolutePosition returns the window position computed by the last
// placement pass.
func (n *Node) AbsolutePosition() (x, y float32) { return n.absX, n.absY }

// ZIndex returns the node's z ordering within its parent.
func (n *Node) ZIndex() int { return n.zIndex }

// SetZIndex changes the z ordering and invalidates draw order.
func (n *Node) SetZIndex(z int) {
	if n.zIndex != z {
		n.zIndex = z
		n.InvalidateDraw()
	}
}

// SetOnInvalidate installs the invalidation sink.
func (n *Node) SetOnInvalidate(fn func(bits InvalidationBits)) {
	n.onInvalidate = fn
}

// SetPolicy replaces the measure policy, clearing caches.
func (n *Node) SetPolicy(policy MeasurePolicy) {
	n.policy = policy
	n.InvalidateMeasure()
}

// SetModifiers reconciles the chain against the new element list and raises
// the invalidation bits implied by the capability changes. Individual
// element updates raise their own bits through the owner interface.
func (n *Node) SetModifiers(elements []modifier.Element) {
	changed := n.chain.Reconcile(elements)
	n.refreshParentData()
	if changed != 0 {
		if changed.Has(modifier.CapLayout) {
			n.InvalidateMeasure()
		}
		n.InvalidateDraw()
		if changed.Has(modifier.CapSemantics) {
			n.InvalidateSemantics()
		}
	}
}

func (n *Node) refreshParentData() {
	var data any
	for _, mn := range n.chain.LayoutNodes() {
		if pd, ok := mn.(ParentDataModifierNode); ok {
			data = pd.ModifyParentData(data)
		}
	}
	// Parent-data-only modifiers may not advertise CapLayout; scan the full
	// chain for them as well.
	for i := 0; i < n.chain.Len(); i++ {
		if pd, ok := n.chain.NodeAt(i).(ParentDataModifierNode); ok {
			found := false
			for _, mn := range n.chain.LayoutNodes() {
				if mn == n.chain.NodeAt(i) {
					found = true
					break
				}
			}
			if !found {
				data = pd.ModifyParentData(data)
			}
		}
	}
	n.parentData = data
}

// ParentData returns the folded layout hints for the parent's policy.
func (n *Node) ParentData() any { return n.parentData }

// InsertChild inserts child at index, detaching it from any previous parent.
func (n *Node) InsertChild(index int, child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.InvalidateMeasure()
}

// AppendChild adds child at the end of the child list.
func (n *Node) AppendChild(child *Node) {
	n.InsertChild(len(n.children), child)
}

// RemoveChild removes child from the list. No-op if absent.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.RemoveChildAt(i)
			return
		}
	}
}

// RemoveChildAt removes the child at index.
func (n *Node) RemoveChildAt(index int) {
	child := n.children[index]
	child.parent = nil
	copy(n.children[index:], n.children[index+1:])
	n.children = n.children[:len(n.children)-1]
	n.InvalidateMeasure()
}

// ReplaceChildren swaps the entire child list. Children keep their own
// computed state; the node remeasures.
func (n *Node) ReplaceChildren(children []*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = append(n.children[:0], children...)
	for _, c := range children {
		if c.parent != nil && c.parent != n {
			c.parent.RemoveChild(c)
		}
		c.parent = n
	}
	n.InvalidateMeasure()
}

// Detach fires the modifier chain's detach hooks for this node and its
// entire subtree. Called when the owning group is discarded.
func (n *Node) Detach() {
	for _, c := range n.children {
		c.Detach()
	}
	n.chain.Detach()
}

// InvalidateMeasure bumps the epoch and marks this node and its ancestors
// as needing measurement.
func (n *Node) InvalidateMeasure() {
	n.epoch++
	for p := n; p != nil; p = p.parent {
		if p.needsMeasure && p != n {
			break
		}
		p.needsMeasure = true
	}
	n.raise(BitMeasure)
}

// InvalidateDraw marks the node for redraw without forcing measurement.
func (n *Node) InvalidateDraw() {
	n.dirty |= BitDraw
	n.raise(BitDraw)
}

// InvalidateSemantics marks the semantics snapshot stale.
func (n *Node) InvalidateSemantics() {
	n.dirty |= BitSemantics
	n.raise(BitSemantics)
}

func (n *Node) raise(bits InvalidationBits) {
	n.dirty |= bits
	for p := n; p != nil; p = p.parent {
		if p.onInvalidate != nil {
			p.onInvalidate(bits)
			return
		}
	}
}

// TakeDirty clears and returns the node's dirty bits.
func (n *Node) TakeDirty() InvalidationBits {
	d := n.dirty
	n.dirty = 0
	return d
}

// NeedsMeasure reports whether the node's subtree has pending measurement.
func (n *Node) NeedsMeasure() bool { return n.needsMeasure }

// Measure measures the node under the constraints, running the layout
// modifier chain outside-in and the measure policy over the children at the
// center. The result always satisfies the constraints.
func (n *Node) Measure(c Constraints) Size {
	if !n.needsMeasure {
		for _, e := range n.measureCache {
			if e.epoch == n.epoch && e.constraints == c {
				n.size = e.size
				return e.size
			}
		}
	}

	n.contentOffset = Offset{}
	size := n.measureThroughModifiers(n.chain.LayoutNodes(), c)
	size = sanitizeSize(size)
	size.Width, size.Height = c.Constrain(size.Width, size.Height)
	n.size = size
	n.needsMeasure = false
	n.storeMeasureCache(c, size)
	return size
}

func (n *Node) measureThroughModifiers(mods []modifier.Node, c Constraints) Size {
	if len(mods) == 0 {
		return n.measureContent(c)
	}
	lm, ok := mods[0].(LayoutModifierNode)
	if !ok {
		// A node advertising CapLayout must implement LayoutModifierNode.
		panic("layout: modifier node advertises CapLayout but does not implement LayoutModifierNode")
	}
	inner := &innerMeasurable{node: n, mods: mods[1:]}
	size, off := lm.MeasureLayout(inner, c)
	n.contentOffset.X += off.X
	n.contentOffset.Y += off.Y
	return sanitizeSize(size)
}

func (n *Node) measureContent(c Constraints) Size {
	children := n.childMeasurables()
	return n.policy.Measure(c, children)
}

func (n *Node) childMeasurables() []Measurable {
	out := make([]Measurable, len(n.children))
	for i, child := range n.children {
		out[i] = &childMeasurable{child}
	}
	return out
}

// Intrinsic answers one intrinsic query, cached per epoch.
func (n *Node) Intrinsic(kind IntrinsicKind, arg float32) float32 {
	for _, e := range n.intrinsicCache {
		if e.epoch == n.epoch && e.kind == kind && e.arg == arg {
			return e.value
		}
	}
	v := n.intrinsicThroughModifiers(n.chain.LayoutNodes(), kind, arg)
	n.storeIntrinsicCache(kind, arg, v)
	return v
}

func (n *Node) intrinsicThroughModifiers(mods []modifier.Node, kind IntrinsicKind, arg float32) float32 {
	if len(mods) == 0 {
		children := n.childMeasurables()
		switch kind {
		case MinIntrinsicW:
			return n.policy.MinIntrinsicWidth(children, arg)
		case MaxIntrinsicW:
			return n.policy.MaxIntrinsicWidth(children, arg)
		case MinIntrinsicH:
			return n.policy.MinIntrinsicHeight(children, arg)
		default:
			return n.policy.MaxIntrinsicHeight(children, arg)
		}
	}
	inner := &innerMeasurable{node: n, mods: mods[1:]}
	if im, ok := mods[0].(IntrinsicModifierNode); ok {
		switch kind {
		case MinIntrinsicW:
			return im.MinIntrinsicWidth(inner, arg)
		case MaxIntrinsicW:
			return im.MaxIntrinsicWidth(inner, arg)
		case MinIntrinsicH:
			return im.MinIntrinsicHeight(inner, arg)
		default:
			return im.MaxIntrinsicHeight(inner, arg)
		}
	}
	return n.intrinsicThroughModifiers(mods[1:], kind, arg)
}

func (n *Node) storeMeasureCache(c Constraints, size Size) {
	// Drop stale-epoch entries lazily while scanning for a slot.
	live := n.measureCache[:0]
	for _, e := range n.measureCache {
		if e.epoch == n.epoch {
			live = append(live, e)
		}
	}
	n.measureCache = live
	if len(n.measureCache) >= measureCacheCap {
		n.measureCache = n.measureCache[1:]
	}
	n.measureCache = append(n.measureCache, measureCacheEntry{constraints: c, size: size, epoch: n.epoch})
}

func (n *Node) storeIntrinsicCache(kind IntrinsicKind, arg, value float32) {
	live := n.intrinsicCache[:0]
	for _, e := range n.intrinsicCache {
		if e.epoch == n.epoch {
			live = append(live, e)
		}
	}
	n.intrinsicCache = live
	n.intrinsicCache = append(n.intrinsicCache, intrinsicCacheEntry{kind: kind, arg: arg, value: value, epoch: n.epoch})
}

// sanitizeSize clamps non-finite or negative dimensions to 0 with a warning,
// so a misbehaving policy cannot poison the tree.
func sanitizeSize(s Size) Size {
	bad := func(v float32) bool {
		return v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0)
	}
	if bad(s.Width) {
		log.Printf("layout: clamping invalid width %v to 0", s.Width)
		s.Width = 0
	}
	if bad(s.Height) {
		log.Printf("layout: clamping invalid height %v to 0", s.Height)
		s.Height = 0
	}
	return s
}

// innerMeasurable is the proxy a layout modifier measures: the rest of the
// chain plus the node's content.
type innerMeasurable struct {
	node *Node
	mods []modifier.Node
}

func (m *innerMeasurable) Measure(c Constraints) Placeable {
	size := m.node.measureThroughModifiers(m.mods, c)
	return &innerPlaceable{size: size}
}

func (m *innerMeasurable) MinIntrinsicWidth(height float32) float32 {
	return m.node.intrinsicThroughModifiers(m.mods, MinIntrinsicW, height)
}

func (m *innerMeasurable) MaxIntrinsicWidth(height float32) float32 {
	return m.node.intrinsicThroughModifiers(m.mods, MaxIntrinsicW, height)
}

func (m *innerMeasurable) MinIntrinsicHeight(width float32) float32 {
	return m.node.intrinsicThroughModifiers(m.mods, MinIntrinsicH, width)
}

func (m *innerMeasurable) MaxIntrinsicHeight(width float32) float32 {
	return m.node.intrinsicThroughModifiers(m.mods, MaxIntrinsicH, width)
}

func (m *innerMeasurable) ParentData() any { return m.node.parentData }

// innerPlaceable records nothing: the wrapping modifier's returned content
// offset is authoritative for inner placement.
type innerPlaceable struct {
	size Size
}

func (p *innerPlaceable) Size() Size           { return p.size }
func (p *innerPlaceable) PlaceAt(x, y float32) {}

// childMeasurable adapts a child node into the Measurable handed to the
// parent's measure policy.
type childMeasurable struct {
	node *Node
}

func (m *childMeasurable) Measure(c Constraints) Placeable {
	m.node.Measure(c)
	return &childPlaceable{node: m.node}
}

func (m *childMeasurable) MinIntrinsicWidth(height float32) float32 {
	return m.node.Intrinsic(MinIntrinsicW, height)
}

func (m *childMeasurable) MaxIntrinsicWidth(height float32) float32 {
	return m.node.Intrinsic(MaxIntrinsicW, height)
}

func (m *childMeasurable) MinIntrinsicHeight(width float32) float32 {
	return m.node.Intrinsic(MinIntrinsicH, width)
}

func (m *childMeasurable) MaxIntrinsicHeight(width float32) float32 {
	return m.node.Intrinsic(MaxIntrinsicH, width)
}

func (m *childMeasurable) ParentData() any { return m.node.parentData }

type childPlaceable struct {
	node *Node
}

func (p *childPlaceable) Size() Size { return p.node.size }

func (p *childPlaceable) PlaceAt(x, y float32) {
	p.node.offset = Offset{X: x, Y: y}
}
