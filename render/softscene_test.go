package render

import (
	"testing"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
)

type tapElement struct {
	onEvent func(*event.PointerEvent)
}

func (e tapElement) Capabilities() modifier.Capabilities { return modifier.CapPointerInput }
func (e tapElement) Create() modifier.Node               { return &tapNode{fn: e.onEvent} }
func (e tapElement) Update(n modifier.Node)              { n.(*tapNode).fn = e.onEvent }
func (e tapElement) AlwaysUpdate() bool                  { return true }

type tapNode struct {
	modifier.NodeBase
	fn func(*event.PointerEvent)
}

func (n *tapNode) OnPointerEvent(ev *event.PointerEvent) {
	if n.fn != nil {
		n.fn(ev)
	}
}

func buildScene(t *testing.T, root *layout.Node, w, h float32) *SoftScene {
	t.Helper()
	root.Measure(layout.Tight(w, h))
	s := NewSoftScene()
	s.RebuildScene(root, layout.Size{Width: w, Height: h})
	return s
}

func TestBackgroundProducesRect(t *testing.T) {
	n := layout.NewNode(layout.LeafPolicy{Width: 50, Height: 40})
	n.SetModifiers([]modifier.Element{
		layout.PaddingAll(0),
		BackgroundElement{Color: 0xFF0000FF},
	})
	root := layout.NewNode(layout.BoxPolicy{})
	root.AppendChild(n)

	s := buildScene(t, root, 100, 100)
	cmds := s.Commands()
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	c := cmds[0]
	if c.Kind != CmdRect || c.Color != 0xFF0000FF {
		t.Errorf("command = %+v", c)
	}
	if c.Bounds.Width != 50 || c.Bounds.Height != 40 {
		t.Errorf("fill bounds = %+v, want 50x40", c.Bounds)
	}
}

func TestPaintOrderFollowsTreeAndZ(t *testing.T) {
	root := layout.NewNode(layout.BoxPolicy{})
	under := layout.NewNode(layout.LeafPolicy{Width: 100, Height: 100})
	under.SetModifiers([]modifier.Element{BackgroundElement{Color: 0x111111FF}})
	over := layout.NewNode(layout.LeafPolicy{Width: 50, Height: 50})
	over.SetModifiers([]modifier.Element{
		layout.ZIndexElement{Z: 5},
		BackgroundElement{Color: 0x222222FF},
	})
	// Emitted before "under" but painted after it because of its z.
	root.AppendChild(over)
	root.AppendChild(under)

	s := buildScene(t, root, 100, 100)
	cmds := s.Commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands", len(cmds))
	}
	if cmds[0].Color != 0x111111FF || cmds[1].Color != 0x222222FF {
		t.Errorf("paint order wrong: %v then %v", cmds[0].Color, cmds[1].Color)
	}
}

func TestHitTestTopmostFirst(t *testing.T) {
	root := layout.NewNode(layout.BoxPolicy{})
	bottom := layout.NewNode(layout.LeafPolicy{Width: 100, Height: 100})
	bottom.SetModifiers([]modifier.Element{tapElement{}})
	top := layout.NewNode(layout.LeafPolicy{Width: 40, Height: 40})
	top.SetModifiers([]modifier.Element{layout.ZIndexElement{Z: 3}, tapElement{}})
	root.AppendChild(bottom)
	root.AppendChild(top)

	s := buildScene(t, root, 100, 100)

	hits := s.HitTest(10, 10)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].NodeID() != top.ID() || hits[1].NodeID() != bottom.ID() {
		t.Errorf("hit order = [%v %v], want top then bottom", hits[0].NodeID(), hits[1].NodeID())
	}

	hits = s.HitTest(80, 80)
	if len(hits) != 1 || hits[0].NodeID() != bottom.ID() {
		t.Errorf("outside the top node, hits = %d", len(hits))
	}
}

func TestRoundedCornerHitTest(t *testing.T) {
	n := layout.NewNode(layout.LeafPolicy{Width: 100, Height: 100})
	n.SetModifiers([]modifier.Element{
		BackgroundElement{Color: White, CornerRadius: 20},
		tapElement{},
	})
	root := layout.NewNode(layout.BoxPolicy{})
	root.AppendChild(n)

	s := buildScene(t, root, 100, 100)
	if hits := s.HitTest(2, 2); len(hits) != 0 {
		t.Error("corner point outside the rounding still hit")
	}
	if hits := s.HitTest(50, 2); len(hits) != 1 {
		t.Error("edge midpoint missed")
	}
	if hits := s.HitTest(50, 50); len(hits) != 1 {
		t.Error("center missed")
	}
}

func TestDispatchResolvesLocalCoordinates(t *testing.T) {
	var local [2]float32
	inner := layout.NewNode(layout.LeafPolicy{Width: 50, Height: 50})
	inner.SetModifiers([]modifier.Element{tapElement{onEvent: func(ev *event.PointerEvent) {
		local = [2]float32{ev.LocalX, ev.LocalY}
	}}})
	root := layout.NewNode(layout.BoxPolicy{})
	root.SetModifiers([]modifier.Element{layout.PaddingAll(10)})
	root.AppendChild(inner)

	s := buildScene(t, root, 100, 100)
	target, ok := s.FindTarget(inner.ID())
	if !ok {
		t.Fatal("inner node has no target")
	}
	ev := event.NewPointerEvent(1, event.PointerDown, 15, 25, event.MouseButtonLeft, 0)
	defer ev.Release()
	target.Dispatch(ev)
	if local != [2]float32{5, 15} {
		t.Errorf("local = %v, want [5 15] (window point minus padded origin)", local)
	}
}

func TestFindTargetAfterRebuild(t *testing.T) {
	n := layout.NewNode(layout.LeafPolicy{Width: 30, Height: 30})
	n.SetModifiers([]modifier.Element{tapElement{}})
	root := layout.NewNode(layout.BoxPolicy{})
	root.AppendChild(n)

	s := buildScene(t, root, 100, 100)
	if _, ok := s.FindTarget(n.ID()); !ok {
		t.Fatal("target missing")
	}

	// Node leaves the tree; a rebuild must drop it.
	root.ReplaceChildren(nil)
	root.Measure(layout.Tight(100, 100))
	s.RebuildScene(root, layout.Size{Width: 100, Height: 100})
	if _, ok := s.FindTarget(n.ID()); ok {
		t.Error("stale target survived rebuild")
	}
}

func TestLerpColor(t *testing.T) {
	if got := LerpColor(0x000000FF, 0xFFFFFFFF, 0); got != 0x000000FF {
		t.Errorf("t=0: %08x", uint32(got))
	}
	if got := LerpColor(0x000000FF, 0xFFFFFFFF, 1); got != 0xFFFFFFFF {
		t.Errorf("t=1: %08x", uint32(got))
	}
	r, g, b, a := LerpColor(0x000000FF, 0xFF0000FF, 0.5).RGBA()
	if r != 127 || g != 0 || b != 0 || a != 255 {
		t.Errorf("midpoint = %d %d %d %d", r, g, b, a)
	}
}
