package input

import (
	"sync/atomic"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/modifier"
)

// FocusID identifies one focusable region for the lifetime of its node.
type FocusID uint64

var nextFocusID atomic.Uint64

// NewFocusID allocates a process-unique focus id.
func NewFocusID() FocusID {
	return FocusID(nextFocusID.Add(1))
}

// FocusedTextFieldHandler receives keyboard traffic while its field owns
// focus. Registration is exclusive: at most one handler is live, and key
// routing to it is a single indirection, never a tree scan.
type FocusedTextFieldHandler interface {
	// HandleKey processes one key event; returns whether it was handled.
	HandleKey(ev *event.KeyEvent) bool

	// InsertText inserts committed text at the cursor (typing, IME commit,
	// paste).
	InsertText(text string)

	// DeleteSurrounding removes bytes around the cursor, as IME backends
	// request.
	DeleteSurrounding(beforeBytes, afterBytes int)

	// SetComposition marks the in-progress IME composition region, or
	// clears it when start < 0.
	SetComposition(startByte, endByte int)
}

// FocusManager tracks the single focused region and the exclusive text
// handler attached to it. UI-thread only.
type FocusManager struct {
	active   FocusID
	state    modifier.FocusState
	captured bool

	observers map[FocusID]func(modifier.FocusState)
	handler   FocusedTextFieldHandler

	// onInvalidate is a cheap bit consumed by the composition layer; focus
	// changes never force measure.
	onInvalidate func()
}

func NewFocusManager() *FocusManager {
	return &FocusManager{observers: make(map[FocusID]func(modifier.FocusState))}
}

// SetOnInvalidate installs the hook run after any focus transition.
func (m *FocusManager) SetOnInvalidate(fn func()) { m.onInvalidate = fn }

// Register adds a focusable region. The observer runs on every transition
// affecting this id. Returns false when the id is already registered.
func (m *FocusManager) Register(id FocusID, observer func(modifier.FocusState)) bool {
	if _, ok := m.observers[id]; ok {
		return false
	}
	m.observers[id] = observer
	return true
}

// Unregister removes a region, clearing focus if it was focused.
func (m *FocusManager) Unregister(id FocusID) {
	delete(m.observers, id)
	if m.active == id {
		m.active = 0
		m.state = modifier.FocusInactive
		m.captured = false
		m.handler = nil
		m.invalidate()
	}
}

// RequestFocus moves focus to id. The previous holder transitions to
// Inactive. Refused while focus is captured by another id.
func (m *FocusManager) RequestFocus(id FocusID) bool {
	if m.captured && m.active != id {
		return false
	}
	if _, ok := m.observers[id]; !ok {
		return false
	}
	if m.active == id && m.state != modifier.FocusInactive {
		return true
	}
	if prev := m.active; prev != 0 && prev != id {
		m.notify(prev, modifier.FocusInactive)
		m.handler = nil
	}
	m.active = id
	m.state = modifier.FocusActive
	m.notify(id, modifier.FocusActive)
	m.invalidate()
	return true
}

// ClearFocus deactivates the current holder. No-op while captured.
func (m *FocusManager) ClearFocus() {
	if m.captured || m.active == 0 {
		return
	}
	m.notify(m.active, modifier.FocusInactive)
	m.active = 0
	m.state = modifier.FocusInactive
	m.handler = nil
	m.invalidate()
}

// CaptureFocus locks focus on the current holder; transitions away are
// refused until FreeFocus.
func (m *FocusManager) CaptureFocus() bool {
	if m.active == 0 {
		return false
	}
	m.captured = true
	m.state = modifier.FocusCaptured
	m.notify(m.active, modifier.FocusCaptured)
	m.invalidate()
	return true
}

// FreeFocus releases a capture, leaving the holder Active.
func (m *FocusManager) FreeFocus() {
	if !m.captured {
		return
	}
	m.captured = false
	m.state = modifier.FocusActive
	if m.active != 0 {
		m.notify(m.active, modifier.FocusActive)
	}
	m.invalidate()
}

// Focused returns the current holder, 0 when none.
func (m *FocusManager) Focused() FocusID { return m.active }

// State returns the current holder's state.
func (m *FocusManager) State() modifier.FocusState {
	if m.active == 0 {
		return modifier.FocusInactive
	}
	return m.state
}

// SetTextFieldHandler installs the exclusive keyboard handler. Passing nil
// de-registers. Replacement is atomic from the UI thread's perspective.
func (m *FocusManager) SetTextFieldHandler(h FocusedTextFieldHandler) {
	m.handler = h
}

// TextFieldHandler returns the exclusive handler, if one is registered.
func (m *FocusManager) TextFieldHandler() FocusedTextFieldHandler { return m.handler }

// RouteKey delivers a key event to the focused text handler. Returns
// whether a handler consumed it.
func (m *FocusManager) RouteKey(ev *event.KeyEvent) bool {
	if m.handler == nil {
		return false
	}
	if m.handler.HandleKey(ev) {
		ev.Consume()
		return true
	}
	return false
}

func (m *FocusManager) notify(id FocusID, state modifier.FocusState) {
	if obs, ok := m.observers[id]; ok && obs != nil {
		obs(state)
	}
}

func (m *FocusManager) invalidate() {
	if m.onInvalidate != nil {
		m.onInvalidate()
	}
}
