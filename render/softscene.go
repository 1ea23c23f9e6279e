package render

import (
	"sort"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
)

// SoftScene is the built-in software scene: draw commands in paint order
// plus hit regions derived from the layout tree. It backs tests and any
// host renderer that consumes a command list.
type SoftScene struct {
	commands []DrawCommand
	regions  []*hitRegion
	byID     map[layout.NodeID]*hitRegion
	viewport layout.Size
}

func NewSoftScene() *SoftScene {
	return &SoftScene{byID: make(map[layout.NodeID]*hitRegion)}
}

// Commands returns the draw commands in paint order.
func (s *SoftScene) Commands() []DrawCommand { return s.commands }

// Viewport returns the size passed to the last rebuild.
func (s *SoftScene) Viewport() layout.Size { return s.viewport }

func (s *SoftScene) Clear() {
	s.commands = s.commands[:0]
	s.regions = s.regions[:0]
	for k := range s.byID {
		delete(s.byID, k)
	}
}

// RebuildScene walks the measured tree in paint order: each node paints
// behind its content, then children in z order, then overlay draws.
func (s *SoftScene) RebuildScene(root *layout.Node, viewport layout.Size) {
	s.Clear()
	s.viewport = viewport
	layout.CollectPlacements(root) // stamps absolute positions
	s.walk(root, 0)
	sort.SliceStable(s.regions, func(i, j int) bool { return s.regions[i].z < s.regions[j].z })
}

func (s *SoftScene) walk(n *layout.Node, z int) {
	x, y := n.AbsolutePosition()
	size := n.Size()
	bounds := event.Bounds{X: x, Y: y, Width: size.Width, Height: size.Height}
	if n.ZIndex() != 0 {
		z = n.ZIndex()
	}

	chain := n.Chain()
	var drawNodes []DrawModifierNode
	if chain.Has(modifier.CapDraw) {
		for _, dn := range chain.DrawNodes() {
			if d, ok := dn.(DrawModifierNode); ok {
				drawNodes = append(drawNodes, d)
				s.paint(d.Draw, bounds, z)
			}
		}
	}

	if chain.Has(modifier.CapPointerInput) {
		region := &hitRegion{node: n, bounds: bounds, z: z, radius: cornerRadiusOf(chain)}
		s.regions = append(s.regions, region)
		s.byID[n.ID()] = region
	}

	children := append([]*layout.Node(nil), n.Children()...)
	sort.SliceStable(children, func(i, j int) bool { return children[i].ZIndex() < children[j].ZIndex() })
	for _, child := range children {
		s.walk(child, z)
	}

	for _, d := range drawNodes {
		if od, ok := d.(OverlayDrawNode); ok {
			s.paint(od.DrawOverlay, bounds, z)
		}
	}
}

// paint runs one draw hook against a local scope and translates its
// commands into window coordinates.
func (s *SoftScene) paint(draw func(*DrawScope), bounds event.Bounds, z int) {
	scope := DrawScope{size: bounds}
	draw(&scope)
	for _, cmd := range scope.commands {
		cmd.Bounds.X += bounds.X
		cmd.Bounds.Y += bounds.Y
		cmd.Z = z
		s.commands = append(s.commands, cmd)
	}
}

// cornerRadiusOf finds a rounded clip on the chain's background, if any.
func cornerRadiusOf(chain *modifier.Chain) float32 {
	for _, dn := range chain.DrawNodes() {
		switch d := dn.(type) {
		case *backgroundNode:
			if d.spec.CornerRadius > 0 {
				return d.spec.CornerRadius
			}
		case *gradientNode:
			if d.spec.CornerRadius > 0 {
				return d.spec.CornerRadius
			}
		}
	}
	return 0
}

func (s *SoftScene) HitTest(x, y float32) []HitTarget {
	var out []HitTarget
	// regions are z ascending; report topmost first.
	for i := len(s.regions) - 1; i >= 0; i-- {
		if s.regions[i].Contains(x, y) {
			out = append(out, s.regions[i])
		}
	}
	return out
}

func (s *SoftScene) FindTarget(id layout.NodeID) (HitTarget, bool) {
	r, ok := s.byID[id]
	return r, ok
}

var _ Scene = (*SoftScene)(nil)

// hitRegion resolves dispatches against the node's live modifier chain, so
// handlers attached after the rebuild are still reachable.
type hitRegion struct {
	node   *layout.Node
	bounds event.Bounds
	radius float32
	z      int
}

func (r *hitRegion) NodeID() layout.NodeID { return r.node.ID() }

func (r *hitRegion) Bounds() event.Bounds { return r.bounds }

func (r *hitRegion) Contains(x, y float32) bool {
	if r.radius > 0 {
		return r.bounds.ContainsRounded(x, y, r.radius)
	}
	return r.bounds.Contains(x, y)
}

func (r *hitRegion) Dispatch(ev *event.PointerEvent) {
	ev.LocalX = ev.X - r.bounds.X
	ev.LocalY = ev.Y - r.bounds.Y
	for _, pn := range r.node.Chain().PointerNodes() {
		if h, ok := pn.(modifier.PointerInputNode); ok {
			h.OnPointerEvent(ev)
		}
	}
}

func (r *hitRegion) DispatchClick(x, y float32) bool {
	fired := false
	for _, pn := range r.node.Chain().PointerNodes() {
		if h, ok := pn.(modifier.ClickNode); ok {
			h.OnClick(x-r.bounds.X, y-r.bounds.Y)
			fired = true
		}
	}
	return fired
}
