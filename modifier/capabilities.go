package modifier

import "github.com/agiangrant/reflow/event"

// PointerInputNode receives pointer events during input dispatch, once per
// pass in hit-path order. Handlers observe consumption through the event and
// must not act on a consumed event.
type PointerInputNode interface {
	Node
	OnPointerEvent(e *event.PointerEvent)
}

// ClickNode fires on click completion: a Down and Up on the same target with
// no consuming gesture in between. Coordinates are local to the target.
type ClickNode interface {
	Node
	OnClick(x, y float32)
}

// SemanticsNode merges its properties into the semantics snapshot.
type SemanticsNode interface {
	Node
	ApplySemantics(cfg *SemanticsConfiguration)
}

// FocusState describes one focusable's place in the focus hierarchy.
type FocusState uint8

const (
	// FocusInactive - not focused.
	FocusInactive FocusState = iota
	// FocusActive - the focused node.
	FocusActive
	// FocusCaptured - focused and locked; transitions away are denied
	// until the capture is freed.
	FocusCaptured
)

func (s FocusState) String() string {
	switch s {
	case FocusInactive:
		return "inactive"
	case FocusActive:
		return "active"
	case FocusCaptured:
		return "captured"
	}
	return "unknown"
}

// FocusNode observes focus state transitions for its element.
type FocusNode interface {
	Node
	OnFocusChanged(state FocusState)
}
