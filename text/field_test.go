package text

import (
	"testing"
	"time"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/input"
	"github.com/agiangrant/reflow/runtime"
)

var _ input.FocusedTextFieldHandler = (*FieldState)(nil)

type countingSub struct{ invalidations int }

func (c *countingSub) InvalidateForWrite() { c.invalidations++ }

func typeKeys(t *testing.T, h input.FocusedTextFieldHandler, s string) {
	t.Helper()
	for _, r := range s {
		ev := event.NewKeyEvent(event.KeyDown, string(r), string(r), 0, false)
		h.HandleKey(ev)
		ev.Release()
	}
}

func TestEditPublishesOnce(t *testing.T) {
	f := NewFieldState("", false)
	sub := &countingSub{}
	f.Peek() // cell exists
	fCell := f.cell
	fCell.Subscribe(sub)

	err := f.Edit(func(b *Buffer) {
		b.Insert("hello")
		b.Insert(" ")
		b.Insert("world")
		b.SelectAll()
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if sub.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1 for the whole edit", sub.invalidations)
	}
	snap := f.Peek()
	if snap.Text != "hello world" {
		t.Errorf("text = %q", snap.Text)
	}
	if snap.Selection.Start != 0 || snap.Selection.End != 11 {
		t.Errorf("selection = %+v", snap.Selection)
	}
}

func TestEditNoChangeDoesNotInvalidate(t *testing.T) {
	f := NewFieldState("abc", false)
	sub := &countingSub{}
	f.cell.Subscribe(sub)

	if err := f.Edit(func(b *Buffer) {}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if sub.invalidations != 0 {
		t.Errorf("invalidations = %d for identical snapshot, want 0", sub.invalidations)
	}
}

func TestHandleKeyTypingAndEditing(t *testing.T) {
	f := NewFieldState("", true)
	typeKeys(t, f, "hi there")

	ev := event.NewKeyEvent(event.KeyDown, "Backspace", "", 0, false)
	if !f.HandleKey(ev) {
		t.Error("Backspace not handled")
	}
	ev.Release()
	if got := f.Peek().Text; got != "hi ther" {
		t.Errorf("text = %q", got)
	}

	// Enter is refused by a single-line field.
	ev = event.NewKeyEvent(event.KeyDown, "Enter", "", 0, false)
	if f.HandleKey(ev) {
		t.Error("single-line field handled Enter")
	}
	ev.Release()

	// Ctrl+A selects all, then typing replaces everything.
	ev = event.NewKeyEvent(event.KeyDown, "a", "a", event.ModCtrl, false)
	f.HandleKey(ev)
	ev.Release()
	typeKeys(t, f, "x")
	if got := f.Peek().Text; got != "x" {
		t.Errorf("text = %q after select-all overtype", got)
	}

	// Ctrl+Z undoes, Ctrl+Shift+Z redoes.
	ev = event.NewKeyEvent(event.KeyDown, "z", "z", event.ModCtrl, false)
	f.HandleKey(ev)
	ev.Release()
	if got := f.Peek().Text; got != "hi ther" {
		t.Errorf("text = %q after undo", got)
	}
	ev = event.NewKeyEvent(event.KeyDown, "z", "z", event.ModCtrl|event.ModShift, false)
	f.HandleKey(ev)
	ev.Release()
	if got := f.Peek().Text; got != "x" {
		t.Errorf("text = %q after redo", got)
	}
}

func TestKeyUpIgnored(t *testing.T) {
	f := NewFieldState("", false)
	ev := event.NewKeyEvent(event.KeyUp, "a", "a", 0, false)
	defer ev.Release()
	if f.HandleKey(ev) {
		t.Error("KeyUp handled")
	}
	if f.Peek().Text != "" {
		t.Errorf("text = %q", f.Peek().Text)
	}
}

func TestIMEPath(t *testing.T) {
	f := NewFieldState("", false)
	f.InsertText("かな")
	f.SetComposition(0, len("かな"))
	snap := f.Peek()
	if !snap.HasComposition || snap.Composition.End != len("かな") {
		t.Fatalf("composition = %+v %v", snap.Composition, snap.HasComposition)
	}
	f.SetComposition(-1, 0)
	if f.Peek().HasComposition {
		t.Error("composition survived clear")
	}
	f.DeleteSurrounding(len("な"), 0)
	if got := f.Peek().Text; got != "か" {
		t.Errorf("text = %q", got)
	}
}

func TestOnEditedFiresOnContentChangeOnly(t *testing.T) {
	f := NewFieldState("abc", false)
	var repasses int
	f.SetOnEdited(func() { repasses++ })

	f.InsertText("d")
	_ = f.Edit(func(b *Buffer) { b.MoveToStart(false) }) // motion only
	if repasses != 1 {
		t.Errorf("repasses = %d, want 1", repasses)
	}
}

// Two fields handing the exclusive key handler through the focus manager:
// keystrokes land only in the focused field.
func TestFocusHandoverBetweenFields(t *testing.T) {
	m := input.NewFocusManager()
	a := NewFieldState("", false)
	b := NewFieldState("", false)

	idA := input.NewFocusID()
	idB := input.NewFocusID()
	m.Register(idA, nil)
	m.Register(idB, nil)

	m.RequestFocus(idA)
	m.SetTextFieldHandler(a)
	typeRouted(t, m, "hello")

	m.RequestFocus(idB)
	m.SetTextFieldHandler(b)
	typeRouted(t, m, " world")

	if got := a.Peek().Text; got != "hello" {
		t.Errorf("a = %q, want %q", got, "hello")
	}
	if got := b.Peek().Text; got != " world" {
		t.Errorf("b = %q, want %q", got, " world")
	}
}

func typeRouted(t *testing.T, m *input.FocusManager, s string) {
	t.Helper()
	for _, r := range s {
		ev := event.NewKeyEvent(event.KeyDown, string(r), string(r), 0, false)
		if !m.RouteKey(ev) {
			t.Fatalf("key %q not routed", r)
		}
		ev.Release()
	}
}

func TestEditRunsInSnapshot(t *testing.T) {
	f := NewFieldState("", false)
	probe := runtime.NewState(0)
	err := f.Edit(func(b *Buffer) {
		if !runtime.InSnapshot() {
			t.Error("Edit body not inside a snapshot")
		}
		b.Insert("x")
		probe.Set(1)
		if probe.Get() != 1 {
			t.Error("snapshot write not visible to its own reads")
		}
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if probe.Get() != 1 {
		t.Error("snapshot write not published after Edit")
	}
}

func TestBlinkTimer(t *testing.T) {
	bl := NewBlink(100 * time.Millisecond)
	now := time.Unix(0, 0)
	if !bl.Visible() {
		t.Fatal("caret hidden initially")
	}
	bl.Reset(now)
	if bl.Update(now.Add(50 * time.Millisecond)) {
		t.Error("toggled before the interval elapsed")
	}
	if !bl.Update(now.Add(150 * time.Millisecond)) {
		t.Error("no toggle after the interval")
	}
	if bl.Visible() {
		t.Error("caret still visible after toggle")
	}
	bl.Reset(now.Add(200 * time.Millisecond))
	if !bl.Visible() {
		t.Error("Reset did not show the caret")
	}
}
