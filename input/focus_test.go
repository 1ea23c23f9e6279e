package input

import (
	"testing"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
)

type stubHandler struct {
	keys     []string
	handled  bool
	inserted string
}

func (h *stubHandler) HandleKey(ev *event.KeyEvent) bool {
	h.keys = append(h.keys, ev.Code)
	return h.handled
}
func (h *stubHandler) InsertText(text string)            { h.inserted += text }
func (h *stubHandler) DeleteSurrounding(before, aft int) {}
func (h *stubHandler) SetComposition(start, end int)     {}

func TestFocusTransitions(t *testing.T) {
	m := NewFocusManager()
	var aStates, bStates []modifier.FocusState
	a := NewFocusID()
	b := NewFocusID()
	m.Register(a, func(s modifier.FocusState) { aStates = append(aStates, s) })
	m.Register(b, func(s modifier.FocusState) { bStates = append(bStates, s) })

	if !m.RequestFocus(a) {
		t.Fatal("RequestFocus(a) refused")
	}
	if m.Focused() != a || m.State() != modifier.FocusActive {
		t.Fatalf("focused = %v state = %v", m.Focused(), m.State())
	}
	if !m.RequestFocus(b) {
		t.Fatal("RequestFocus(b) refused")
	}
	wantA := []modifier.FocusState{modifier.FocusActive, modifier.FocusInactive}
	if len(aStates) != 2 || aStates[0] != wantA[0] || aStates[1] != wantA[1] {
		t.Errorf("a transitions = %v, want %v", aStates, wantA)
	}
	if len(bStates) != 1 || bStates[0] != modifier.FocusActive {
		t.Errorf("b transitions = %v", bStates)
	}

	m.ClearFocus()
	if m.Focused() != 0 || m.State() != modifier.FocusInactive {
		t.Errorf("after clear: focused = %v state = %v", m.Focused(), m.State())
	}
}

func TestFocusCapture(t *testing.T) {
	m := NewFocusManager()
	a := NewFocusID()
	b := NewFocusID()
	m.Register(a, nil)
	m.Register(b, nil)

	m.RequestFocus(a)
	if !m.CaptureFocus() {
		t.Fatal("CaptureFocus refused")
	}
	if m.State() != modifier.FocusCaptured {
		t.Fatalf("state = %v, want captured", m.State())
	}

	if m.RequestFocus(b) {
		t.Error("RequestFocus(b) granted while a holds a capture")
	}
	m.ClearFocus()
	if m.Focused() != a {
		t.Error("ClearFocus moved focus away from a capture holder")
	}
	// Re-request by the holder itself stays granted.
	if !m.RequestFocus(a) {
		t.Error("holder's own RequestFocus refused during capture")
	}

	m.FreeFocus()
	if m.State() != modifier.FocusActive {
		t.Errorf("state after free = %v, want active", m.State())
	}
	if !m.RequestFocus(b) {
		t.Error("RequestFocus(b) refused after capture freed")
	}
}

func TestUnregisterFocusedClearsState(t *testing.T) {
	m := NewFocusManager()
	var invalidations int
	m.SetOnInvalidate(func() { invalidations++ })
	a := NewFocusID()
	m.Register(a, nil)
	m.RequestFocus(a)
	m.SetTextFieldHandler(&stubHandler{})

	m.Unregister(a)
	if m.Focused() != 0 {
		t.Errorf("focused = %v after unregister, want 0", m.Focused())
	}
	if m.TextFieldHandler() != nil {
		t.Error("text handler survived unregister")
	}
	if invalidations == 0 {
		t.Error("no invalidation after focus loss")
	}
}

func TestRouteKey(t *testing.T) {
	m := NewFocusManager()
	ev := event.NewKeyEvent(event.KeyDown, "a", "a", 0, false)
	defer ev.Release()
	if m.RouteKey(ev) {
		t.Error("RouteKey handled with no handler")
	}

	h := &stubHandler{handled: true}
	m.SetTextFieldHandler(h)
	if !m.RouteKey(ev) {
		t.Error("RouteKey missed the handler")
	}
	if !ev.IsConsumed() {
		t.Error("handled key not consumed")
	}
	if len(h.keys) != 1 || h.keys[0] != "a" {
		t.Errorf("handler saw %v", h.keys)
	}

	// Handler declining leaves the event unconsumed.
	ev2 := event.NewKeyEvent(event.KeyDown, "F5", "", 0, false)
	defer ev2.Release()
	h.handled = false
	if m.RouteKey(ev2) || ev2.IsConsumed() {
		t.Error("declined key reported as handled")
	}
}

func TestFocusHandoverSwapsHandler(t *testing.T) {
	m := NewFocusManager()
	first := &stubHandler{handled: true}
	second := &stubHandler{handled: true}
	a := NewFocusID()
	b := NewFocusID()
	m.Register(a, func(s modifier.FocusState) {
		if s == modifier.FocusActive {
			m.SetTextFieldHandler(first)
		}
	})
	m.Register(b, func(s modifier.FocusState) {
		if s == modifier.FocusActive {
			m.SetTextFieldHandler(second)
		}
	})

	m.RequestFocus(a)
	m.RequestFocus(b)

	ev := event.NewKeyEvent(event.KeyDown, "x", "x", 0, false)
	defer ev.Release()
	m.RouteKey(ev)
	if len(first.keys) != 0 {
		t.Errorf("previous field still receiving keys: %v", first.keys)
	}
	if len(second.keys) != 1 {
		t.Errorf("new field keys = %v, want [x]", second.keys)
	}
}

func TestFocusableRequestsFocusOnClick(t *testing.T) {
	m := NewFocusManager()
	req := &FocusRequester{}
	var states []modifier.FocusState
	field := layout.NewNode(layout.LeafPolicy{Width: 100, Height: 40})
	field.SetModifiers([]modifier.Element{
		layout.AlignElement{Alignment: layout.AlignTopStart},
		FocusableElement{
			Manager:   m,
			Requester: req,
			OnChanged: func(s modifier.FocusState) { states = append(states, s) },
		},
	})
	root := layout.NewNode(layout.BoxPolicy{})
	root.AppendChild(field)
	d := NewDispatcher(buildScene(t, root, 200, 200), DefaultConfig())

	if req.FocusID() == 0 {
		t.Fatal("requester not bound on attach")
	}
	if m.Focused() != 0 {
		t.Fatalf("focused before click = %v", m.Focused())
	}

	dispatch(t, d, event.PointerDown, 50, 20).Release()
	dispatch(t, d, event.PointerUp, 50, 20).Release()

	if m.Focused() != req.FocusID() {
		t.Errorf("focused = %v, want %v", m.Focused(), req.FocusID())
	}
	if len(states) != 1 || states[0] != modifier.FocusActive {
		t.Errorf("states = %v, want [active]", states)
	}

	m.ClearFocus()
	if len(states) != 2 || states[1] != modifier.FocusInactive {
		t.Errorf("states = %v, want inactive appended", states)
	}

	// Programmatic focus through the requester.
	if !req.RequestFocus() {
		t.Error("requester RequestFocus refused")
	}

	// Detaching the node unregisters and unbinds.
	field.SetModifiers(nil)
	if m.Focused() != 0 {
		t.Errorf("focused = %v after detach, want 0", m.Focused())
	}
	if req.FocusID() != 0 {
		t.Error("requester still bound after detach")
	}
}
