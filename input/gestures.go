package input

import (
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
)

// ClickableElement fires OnClick when a pointer goes down and back up on
// the node without another gesture consuming the sequence.
type ClickableElement struct {
	OnClick      event.ClickHandler
	OnClickLabel string
	Enabled      bool
}

func (e ClickableElement) Capabilities() modifier.Capabilities {
	return modifier.CapPointerInput | modifier.CapSemantics
}

func (e ClickableElement) Create() modifier.Node {
	return &clickableNode{spec: e}
}

func (e ClickableElement) Update(n modifier.Node) {
	cn := n.(*clickableNode)
	cn.spec = e
	if !e.Enabled {
		cn.pressed = false
	}
}

// Closure equality is unreliable; always push the new handler through.
func (e ClickableElement) AlwaysUpdate() bool { return true }

type clickableNode struct {
	modifier.NodeBase
	spec    ClickableElement
	pressed bool
}

func (n *clickableNode) OnPointerEvent(ev *event.PointerEvent) {
	if ev.Pass != event.PassMain || !n.spec.Enabled {
		return
	}
	switch ev.Kind {
	case event.PointerDown:
		if !ev.IsConsumed() {
			n.pressed = true
		}
	case event.PointerMove:
		// A consuming gesture elsewhere in the path (scroll) claims the
		// sequence; the pending click is abandoned.
		if ev.IsConsumed() {
			n.pressed = false
		}
	case event.PointerUp:
		if n.pressed && !ev.IsConsumed() {
			n.fire(ev.LocalX, ev.LocalY)
		}
		n.pressed = false
	case event.PointerCancel:
		n.pressed = false
	}
}

// OnClick implements the direct click capability used by semantics-driven
// activation (tests, accessibility).
func (n *clickableNode) OnClick(x, y float32) {
	if n.spec.Enabled {
		n.fire(x, y)
	}
}

func (n *clickableNode) fire(x, y float32) {
	if n.spec.OnClick != nil {
		n.spec.OnClick(x, y)
	}
}

func (n *clickableNode) ApplySemantics(cfg *modifier.SemanticsConfiguration) {
	cfg.SetRole(modifier.RoleButton)
	if n.spec.OnClickLabel != "" && cfg.OnClickLabel == "" {
		cfg.OnClickLabel = n.spec.OnClickLabel
	}
	if !n.spec.Enabled {
		cfg.Disabled = true
	}
}

// ScrollableElement turns drags and wheel deltas along one axis into
// OnScroll callbacks. Once a drag passes Threshold the gesture belongs to
// the scrollable: it consumes every later event of the sequence in the
// Initial pass, so descendants observe the consumption before their own
// Main-pass handling.
type ScrollableElement struct {
	Axis      layout.Axis
	Threshold float32
	OnScroll  func(delta float32)
}

func (e ScrollableElement) Capabilities() modifier.Capabilities {
	return modifier.CapPointerInput
}

func (e ScrollableElement) Create() modifier.Node {
	return &scrollableNode{spec: e}
}

func (e ScrollableElement) Update(n modifier.Node) {
	sn := n.(*scrollableNode)
	sn.spec = e
}

func (e ScrollableElement) AlwaysUpdate() bool { return true }

type scrollableNode struct {
	modifier.NodeBase
	spec ScrollableElement

	tracking bool
	dragging bool
	downMain float32
	lastMain float32
}

func (n *scrollableNode) mainOf(ev *event.PointerEvent) float32 {
	if n.spec.Axis == layout.Horizontal {
		return ev.X
	}
	return ev.Y
}

func (n *scrollableNode) OnPointerEvent(ev *event.PointerEvent) {
	switch ev.Pass {
	case event.PassInitial:
		if !n.dragging {
			return
		}
		switch ev.Kind {
		case event.PointerMove:
			n.scrollTo(n.mainOf(ev))
			ev.Consume()
		case event.PointerUp, event.PointerCancel:
			// A drag never completes as a click.
			ev.Consume()
			n.reset()
		}
	case event.PassMain:
		switch ev.Kind {
		case event.PointerDown:
			if !ev.IsConsumed() {
				n.tracking = true
				n.downMain = n.mainOf(ev)
				n.lastMain = n.downMain
			}
		case event.PointerMove:
			if wheel := n.wheelDelta(ev); wheel != 0 && !ev.IsConsumed() {
				n.emit(-wheel)
				ev.Consume()
				return
			}
			if !n.tracking || n.dragging || ev.IsConsumed() {
				return
			}
			m := n.mainOf(ev)
			if abs32(m-n.downMain) > n.spec.Threshold {
				n.dragging = true
				n.scrollTo(m)
				ev.Consume()
			}
		case event.PointerUp, event.PointerCancel:
			n.reset()
		}
	}
}

func (n *scrollableNode) wheelDelta(ev *event.PointerEvent) float32 {
	if n.spec.Axis == layout.Horizontal {
		return ev.DeltaX
	}
	return ev.DeltaY
}

func (n *scrollableNode) scrollTo(main float32) {
	n.emit(n.lastMain - main) // finger down -> content up
	n.lastMain = main
}

func (n *scrollableNode) emit(delta float32) {
	if delta != 0 && n.spec.OnScroll != nil {
		n.spec.OnScroll(delta)
	}
}

func (n *scrollableNode) reset() {
	n.tracking = false
	n.dragging = false
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// FocusRequester lets composition code move focus to the node it is bound
// to, once that node is attached.
type FocusRequester struct {
	manager *FocusManager
	id      FocusID
}

// RequestFocus focuses the bound node. False before attachment or while
// another node holds a capture.
func (r *FocusRequester) RequestFocus() bool {
	if r.manager == nil || r.id == 0 {
		return false
	}
	return r.manager.RequestFocus(r.id)
}

// FocusID returns the bound id, 0 before attachment.
func (r *FocusRequester) FocusID() FocusID { return r.id }

// FocusableElement registers the node as a focus target. Pointer down on
// the node requests focus; state transitions reach OnChanged.
type FocusableElement struct {
	Manager   *FocusManager
	Requester *FocusRequester
	OnChanged func(modifier.FocusState)
}

func (e FocusableElement) Capabilities() modifier.Capabilities {
	return modifier.CapPointerInput | modifier.CapFocus | modifier.CapSemantics
}

func (e FocusableElement) Create() modifier.Node {
	return &focusableNode{spec: e}
}

func (e FocusableElement) Update(n modifier.Node) {
	fn := n.(*focusableNode)
	fn.spec = e
	fn.bindRequester()
}

func (e FocusableElement) AlwaysUpdate() bool { return true }

type focusableNode struct {
	modifier.NodeBase
	spec  FocusableElement
	id    FocusID
	state modifier.FocusState
}

func (n *focusableNode) OnAttach() {
	n.id = NewFocusID()
	n.spec.Manager.Register(n.id, n.OnFocusChanged)
	n.bindRequester()
}

func (n *focusableNode) OnDetach() {
	n.spec.Manager.Unregister(n.id)
	if r := n.spec.Requester; r != nil && r.id == n.id {
		r.id = 0
	}
	n.id = 0
}

func (n *focusableNode) bindRequester() {
	if r := n.spec.Requester; r != nil && n.id != 0 {
		r.manager = n.spec.Manager
		r.id = n.id
	}
}

func (n *focusableNode) OnFocusChanged(state modifier.FocusState) {
	if state == n.state {
		return
	}
	n.state = state
	if n.spec.OnChanged != nil {
		n.spec.OnChanged(state)
	}
	n.InvalidateDraw()
}

func (n *focusableNode) OnPointerEvent(ev *event.PointerEvent) {
	if ev.Pass != event.PassMain || ev.Kind != event.PointerDown || ev.IsConsumed() {
		return
	}
	n.spec.Manager.RequestFocus(n.id)
}

func (n *focusableNode) ApplySemantics(cfg *modifier.SemanticsConfiguration) {
	cfg.Focusable = true
}
