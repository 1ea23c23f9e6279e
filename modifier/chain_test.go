package modifier

import (
	"testing"

	"github.com/agiangrant/reflow/event"
)

// testOwner records invalidation bits.
type testOwner struct {
	draw, measure, semantics int
}

func (o *testOwner) InvalidateDraw()      { o.draw++ }
func (o *testOwner) InvalidateMeasure()   { o.measure++ }
func (o *testOwner) InvalidateSemantics() { o.semantics++ }

// paddingElement is a value-equal element.
type paddingElement struct {
	All float32
}

func (e paddingElement) Capabilities() Capabilities { return CapLayout }
func (e paddingElement) Create() Node               { return &paddingNode{pad: e.All} }
func (e paddingElement) Update(n Node) {
	pn := n.(*paddingNode)
	pn.pad = e.All
	pn.updates++
}
func (e paddingElement) AlwaysUpdate() bool { return false }

type paddingNode struct {
	NodeBase
	pad      float32
	updates  int
	attaches int
	detaches int
}

func (n *paddingNode) OnAttach() { n.attaches++ }
func (n *paddingNode) OnDetach() { n.detaches++ }

// tapElement carries a closure, so it always updates.
type tapElement struct {
	OnTap func()
}

func (e tapElement) Capabilities() Capabilities { return CapPointerInput }
func (e tapElement) Create() Node               { return &tapNode{fn: e.OnTap} }
func (e tapElement) Update(n Node) {
	tn := n.(*tapNode)
	tn.fn = e.OnTap
	tn.updates++
}
func (e tapElement) AlwaysUpdate() bool { return true }

type tapNode struct {
	NodeBase
	fn      func()
	updates int
}

func (n *tapNode) OnPointerEvent(*event.PointerEvent) {}

func TestReconcileReusesNodesInPlace(t *testing.T) {
	c := NewChain(&testOwner{})

	c.Reconcile([]Element{paddingElement{All: 4}, tapElement{OnTap: func() {}}})
	first := c.NodeAt(0).(*paddingNode)
	second := c.NodeAt(1).(*tapNode)

	c.Reconcile([]Element{paddingElement{All: 8}, tapElement{OnTap: func() {}}})

	if c.NodeAt(0).(*paddingNode) != first {
		t.Error("padding node was not reused in place")
	}
	if c.NodeAt(1).(*tapNode) != second {
		t.Error("tap node was not reused in place")
	}
	if first.updates != 1 {
		t.Errorf("padding node updates = %d, want exactly 1", first.updates)
	}
	if first.pad != 8 {
		t.Errorf("padding node pad = %v, want 8", first.pad)
	}
	if first.attaches != 1 || first.detaches != 0 {
		t.Errorf("attach/detach counts = %d/%d, want 1/0", first.attaches, first.detaches)
	}
}

func TestReconcileSkipsUpdateOnEqualElement(t *testing.T) {
	c := NewChain(&testOwner{})

	c.Reconcile([]Element{paddingElement{All: 4}})
	node := c.NodeAt(0).(*paddingNode)
	epoch := node.Epoch()

	c.Reconcile([]Element{paddingElement{All: 4}})

	if node.updates != 0 {
		t.Errorf("equal element triggered %d updates, want 0", node.updates)
	}
	if node.Epoch() != epoch {
		t.Error("epoch advanced for an equal element")
	}
}

func TestReconcileAlwaysUpdateElement(t *testing.T) {
	c := NewChain(&testOwner{})

	fn := func() {}
	c.Reconcile([]Element{tapElement{OnTap: fn}})
	node := c.NodeAt(0).(*tapNode)

	c.Reconcile([]Element{tapElement{OnTap: fn}})
	if node.updates != 1 {
		t.Errorf("always-update element triggered %d updates, want 1", node.updates)
	}
}

func TestReconcileTypeMismatchRecreates(t *testing.T) {
	c := NewChain(&testOwner{})

	c.Reconcile([]Element{paddingElement{All: 4}})
	old := c.NodeAt(0).(*paddingNode)

	c.Reconcile([]Element{tapElement{OnTap: func() {}}})

	if old.detaches != 1 {
		t.Errorf("replaced node detaches = %d, want 1", old.detaches)
	}
	if old.Attached() {
		t.Error("replaced node still attached")
	}
	if _, ok := c.NodeAt(0).(*tapNode); !ok {
		t.Error("new node was not created at position 0")
	}
}

func TestReconcileLengthChanges(t *testing.T) {
	c := NewChain(&testOwner{})

	c.Reconcile([]Element{paddingElement{All: 1}, paddingElement{All: 2}, paddingElement{All: 3}})
	if c.Len() != 3 {
		t.Fatalf("chain len = %d, want 3", c.Len())
	}
	tail := c.NodeAt(2).(*paddingNode)

	c.Reconcile([]Element{paddingElement{All: 1}})
	if c.Len() != 1 {
		t.Errorf("chain len after shrink = %d, want 1", c.Len())
	}
	if tail.detaches != 1 {
		t.Errorf("trimmed node detaches = %d, want 1", tail.detaches)
	}

	c.Reconcile([]Element{paddingElement{All: 1}, tapElement{OnTap: func() {}}})
	if c.Len() != 2 {
		t.Errorf("chain len after grow = %d, want 2", c.Len())
	}
}

func TestCapabilityIndex(t *testing.T) {
	c := NewChain(&testOwner{})

	c.Reconcile([]Element{
		paddingElement{All: 4},
		tapElement{OnTap: func() {}},
		paddingElement{All: 8},
	})

	if got := len(c.LayoutNodes()); got != 2 {
		t.Errorf("layout nodes = %d, want 2", got)
	}
	if got := len(c.PointerNodes()); got != 1 {
		t.Errorf("pointer nodes = %d, want 1", got)
	}
	if !c.Has(CapLayout) || !c.Has(CapPointerInput) {
		t.Error("capability union missing expected bits")
	}
	if c.Has(CapDraw) {
		t.Error("capability union has CapDraw with no draw nodes")
	}
}

func TestDetachFiresAllNodes(t *testing.T) {
	c := NewChain(&testOwner{})

	c.Reconcile([]Element{paddingElement{All: 1}, paddingElement{All: 2}})
	a := c.NodeAt(0).(*paddingNode)
	b := c.NodeAt(1).(*paddingNode)

	c.Detach()

	if a.detaches != 1 || b.detaches != 1 {
		t.Errorf("detach counts = %d/%d, want 1/1", a.detaches, b.detaches)
	}
	if c.Len() != 0 {
		t.Errorf("chain len after detach = %d, want 0", c.Len())
	}
}

func TestNodeInvalidationRouting(t *testing.T) {
	owner := &testOwner{}
	c := NewChain(owner)

	c.Reconcile([]Element{paddingElement{All: 1}})
	node := c.NodeAt(0).(*paddingNode)

	node.InvalidateMeasure()
	node.InvalidateDraw()
	node.InvalidateSemantics()

	if owner.measure != 1 || owner.draw != 1 || owner.semantics != 1 {
		t.Errorf("invalidation counts = %d/%d/%d, want 1/1/1",
			owner.measure, owner.draw, owner.semantics)
	}
}

func TestTestTagElementAppliesTag(t *testing.T) {
	owner := &testOwner{}
	c := NewChain(owner)
	c.Reconcile([]Element{TestTagElement{Tag: "send-button"}})

	var cfg SemanticsConfiguration
	for _, n := range c.SemanticsNodes() {
		n.(SemanticsNode).ApplySemantics(&cfg)
	}
	if cfg.TestTag != "send-button" {
		t.Fatalf("test tag = %q, want %q", cfg.TestTag, "send-button")
	}

	// A tag change invalidates semantics; an identical one does not.
	c.Reconcile([]Element{TestTagElement{Tag: "send-button"}})
	if owner.semantics != 0 {
		t.Errorf("unchanged tag raised %d semantics invalidations", owner.semantics)
	}
	c.Reconcile([]Element{TestTagElement{Tag: "cancel-button"}})
	if owner.semantics != 1 {
		t.Errorf("changed tag raised %d semantics invalidations, want 1", owner.semantics)
	}
}

func TestSemanticsMerge(t *testing.T) {
	var cfg SemanticsConfiguration
	cfg.SetRole(RoleButton)
	cfg.SetText("Send")

	other := SemanticsConfiguration{TestTag: "send-button"}
	other.SetRole(RoleText)
	cfg.Merge(&other)

	if cfg.Role != RoleButton {
		t.Errorf("merge overrode role: got %v", cfg.Role)
	}
	if cfg.TestTag != "send-button" {
		t.Errorf("merge dropped test tag: got %q", cfg.TestTag)
	}
}
