// Package event defines the pointer and keyboard event types that flow from
// the host event loop through the input pipeline to modifier nodes.
//
// Events are pooled: high-frequency pointer moves would otherwise allocate on
// every dispatch. Callers that create events via the New* constructors must
// call Release when dispatch is complete.
package event

import "sync"

// PointerKind identifies the kind of pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerMove
	PointerUp
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// PointerID distinguishes concurrent pointers (fingers, mice).
type PointerID uint32

// Pass identifies the dispatch pass currently walking the hit path.
//
// Ordering for this implementation: Initial runs top-down (outermost handler
// first), Main runs bottom-up (innermost handler first), Final runs top-down.
// A consumption recorded in an earlier pass is visible to all later passes.
type Pass uint8

const (
	PassInitial Pass = iota
	PassMain
	PassFinal
)

func (p Pass) String() string {
	switch p {
	case PassInitial:
		return "initial"
	case PassMain:
		return "main"
	case PassFinal:
		return "final"
	}
	return "unknown"
}

// MouseButton identifies which button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Meta() bool  { return m&ModMeta != 0 }

// PointerEvent is one pointer state change routed through the hit path.
//
// X, Y are logical window coordinates. LocalX, LocalY are relative to the
// hit target currently handling the event; the dispatcher rewrites them per
// target from freshly resolved geometry, never from cached bounds.
type PointerEvent struct {
	ID     PointerID
	Kind   PointerKind
	Button MouseButton
	Mods   Modifiers

	X, Y           float32
	LocalX, LocalY float32

	// Scroll delta for wheel-driven moves.
	DeltaX, DeltaY float32

	// ClickCount is 1 for a single click, 2 for a double, 3 for a triple.
	// Stamped on Down events by the dispatcher.
	ClickCount int

	// Pass currently being dispatched. Set by the dispatcher.
	Pass Pass

	consumed bool
}

// Consume marks the event as consumed. Handlers later in the same pass (and
// in later passes) observe IsConsumed and must not act on the event, though
// they may still read it for hover or leave bookkeeping.
func (e *PointerEvent) Consume() { e.consumed = true }

// IsConsumed reports whether any handler has consumed the event.
func (e *PointerEvent) IsConsumed() bool { return e.consumed }

var pointerEventPool = sync.Pool{
	New: func() any { return &PointerEvent{} },
}

// NewPointerEvent creates a pointer event from the pool.
func NewPointerEvent(id PointerID, kind PointerKind, x, y float32, button MouseButton, mods Modifiers) *PointerEvent {
	e := pointerEventPool.Get().(*PointerEvent)
	*e = PointerEvent{
		ID:     id,
		Kind:   kind,
		Button: button,
		Mods:   mods,
		X:      x,
		Y:      y,
		LocalX: x,
		LocalY: y,
	}
	return e
}

// Release returns the event to the pool. The event must not be used after.
func (e *PointerEvent) Release() {
	pointerEventPool.Put(e)
}

// KeyEventKind distinguishes press and release.
type KeyEventKind uint8

const (
	KeyDown KeyEventKind = iota + 1
	KeyUp
)

// KeyEvent is one keyboard state change routed to the focused handler.
type KeyEvent struct {
	Kind KeyEventKind

	// Code is the logical key name ("a", "Enter", "ArrowLeft", "Backspace").
	Code string

	// Text is the character payload for printable keys, empty otherwise.
	Text string

	Mods   Modifiers
	Repeat bool

	consumed bool
}

// Consume marks the key event as handled.
func (e *KeyEvent) Consume() { e.consumed = true }

// IsConsumed reports whether the key event was handled.
func (e *KeyEvent) IsConsumed() bool { return e.consumed }

var keyEventPool = sync.Pool{
	New: func() any { return &KeyEvent{} },
}

// NewKeyEvent creates a key event from the pool.
func NewKeyEvent(kind KeyEventKind, code, text string, mods Modifiers, repeat bool) *KeyEvent {
	e := keyEventPool.Get().(*KeyEvent)
	*e = KeyEvent{Kind: kind, Code: code, Text: text, Mods: mods, Repeat: repeat}
	return e
}

// Release returns the event to the pool.
func (e *KeyEvent) Release() {
	keyEventPool.Put(e)
}

// PointerHandler is invoked once per pass for each node on the hit path.
type PointerHandler func(*PointerEvent)

// ClickHandler fires on click completion (down and up on the same target
// with no consuming gesture in between).
type ClickHandler func(x, y float32)
