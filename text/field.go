package text

import (
	"time"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/runtime"
)

// Snapshot is the immutable view of a field published to composition
// readers. Comparable, so equal publishes are dropped by the state cell.
type Snapshot struct {
	Text           string
	Selection      Range
	Composition    Range
	HasComposition bool
}

// FieldState couples an editing buffer to a reactive state cell. Readers
// observe a Snapshot through the cell (auto-subscribing their scope); all
// mutations go through Edit, which publishes the new snapshot atomically.
//
// FieldState is also the focused key handler: while its field owns focus it
// receives raw key events, IME inserts, and composition updates.
type FieldState struct {
	buf  *Buffer
	cell *runtime.Cell

	// onEdited runs after a content mutation publishes. The field widget
	// uses it to schedule a layout repass: the text lives in the cell, but
	// the subtree's measurements are stale the moment it changes.
	onEdited func()

	blink *Blink
}

// NewFieldState creates field state with initial content.
func NewFieldState(initial string, singleLine bool) *FieldState {
	buf := NewBuffer()
	buf.SetSingleLine(singleLine)
	if initial != "" {
		buf.text = initial
		buf.collapseTo(len(initial))
	}
	s := &FieldState{
		buf:   buf,
		blink: NewBlink(0),
	}
	s.cell = runtime.NewCell(s.snapshot())
	return s
}

// SetOnEdited installs the post-edit hook.
func (s *FieldState) SetOnEdited(fn func()) { s.onEdited = fn }

// Read returns the current snapshot, subscribing the active scope.
func (s *FieldState) Read() Snapshot {
	return s.cell.Load().(Snapshot)
}

// Peek returns the current snapshot without subscribing.
func (s *FieldState) Peek() Snapshot {
	return s.cell.Peek().(Snapshot)
}

// Text returns the current content, subscribing the active scope.
func (s *FieldState) Text() string { return s.Read().Text }

// Blink returns the caret blink timer.
func (s *FieldState) Blink() *Blink { return s.blink }

// Edit runs fn against the buffer inside a mutable snapshot. All buffer
// changes publish as one cell write when fn returns: readers invalidate
// exactly once however many operations fn performed.
func (s *FieldState) Edit(fn func(*Buffer)) error {
	before := s.buf.text
	err := runtime.RunInMutableSnapshot(func() error {
		fn(s.buf)
		s.cell.Store(s.snapshot())
		return nil
	})
	if err != nil {
		return err
	}
	s.blink.Reset(time.Now())
	if s.buf.text != before && s.onEdited != nil {
		s.onEdited()
	}
	return nil
}

func (s *FieldState) snapshot() Snapshot {
	comp, has := s.buf.Composition()
	return Snapshot{
		Text:           s.buf.Text(),
		Selection:      s.buf.Selection(),
		Composition:    comp,
		HasComposition: has,
	}
}

// HandleKey processes one key event from the focus router. Returns whether
// the event was handled.
func (s *FieldState) HandleKey(ev *event.KeyEvent) bool {
	if ev.Kind != event.KeyDown {
		return false
	}
	extend := ev.Mods.Shift()
	word := ev.Mods.Ctrl() || ev.Mods.Alt()
	chord := ev.Mods.Ctrl() || ev.Mods.Meta()

	handled := true
	err := s.Edit(func(b *Buffer) {
		switch ev.Code {
		case "ArrowLeft":
			if word {
				b.MoveWordLeft(extend)
			} else {
				b.MoveLeft(extend)
			}
		case "ArrowRight":
			if word {
				b.MoveWordRight(extend)
			} else {
				b.MoveRight(extend)
			}
		case "ArrowUp":
			b.MoveUp(extend, ActiveMeasurer())
		case "ArrowDown":
			b.MoveDown(extend, ActiveMeasurer())
		case "Home":
			b.MoveLineStart(extend)
		case "End":
			b.MoveLineEnd(extend)
		case "Backspace":
			if word {
				b.DeleteWordBackward()
			} else {
				b.DeleteBackward()
			}
		case "Delete":
			if word {
				b.DeleteWordForward()
			} else {
				b.DeleteForward()
			}
		case "Enter":
			if b.SingleLine() {
				handled = false
			} else {
				b.Insert("\n")
			}
		case "a", "A":
			if chord {
				b.SelectAll()
			} else {
				handled = insertFromEvent(b, ev)
			}
		case "z", "Z":
			if chord && extend {
				b.Redo()
			} else if chord {
				b.Undo()
			} else {
				handled = insertFromEvent(b, ev)
			}
		case "y", "Y":
			if chord {
				b.Redo()
			} else {
				handled = insertFromEvent(b, ev)
			}
		default:
			handled = insertFromEvent(b, ev)
		}
	})
	return err == nil && handled
}

func insertFromEvent(b *Buffer, ev *event.KeyEvent) bool {
	if ev.Text == "" || ev.Mods.Ctrl() || ev.Mods.Meta() {
		return false
	}
	b.Insert(ev.Text)
	return true
}

// InsertText commits text at the cursor (typing, IME commit, paste).
func (s *FieldState) InsertText(text string) {
	_ = s.Edit(func(b *Buffer) { b.Insert(text) })
}

// DeleteSurrounding removes bytes around the cursor, as IME backends
// request.
func (s *FieldState) DeleteSurrounding(beforeBytes, afterBytes int) {
	_ = s.Edit(func(b *Buffer) { b.DeleteSurrounding(beforeBytes, afterBytes) })
}

// SetComposition marks the IME composition region, or clears it when
// startByte is negative.
func (s *FieldState) SetComposition(startByte, endByte int) {
	_ = s.Edit(func(b *Buffer) {
		if startByte < 0 {
			b.ClearComposition()
		} else {
			b.SetComposition(Range{Start: startByte, End: endByte})
		}
	})
}

// Blink is the caret blink timer. It lives on the focus boundary: only the
// focused field ticks it, via a frame callback, so an idle caret costs one
// timer instead of a continuous redraw.
type Blink struct {
	visible    bool
	interval   time.Duration
	lastToggle time.Time
}

// DefaultBlinkInterval is the standard caret blink rate.
const DefaultBlinkInterval = 530 * time.Millisecond

// NewBlink creates a blink timer. interval <= 0 selects the default.
func NewBlink(interval time.Duration) *Blink {
	if interval <= 0 {
		interval = DefaultBlinkInterval
	}
	return &Blink{visible: true, interval: interval}
}

// Visible reports whether the caret is currently shown.
func (bl *Blink) Visible() bool { return bl.visible }

// Interval returns the toggle period.
func (bl *Blink) Interval() time.Duration { return bl.interval }

// SetInterval changes the toggle period; hosts apply their configured rate
// to the focused field. interval <= 0 is ignored.
func (bl *Blink) SetInterval(interval time.Duration) {
	if interval > 0 {
		bl.interval = interval
	}
}

// Update advances the timer to now; returns whether visibility toggled
// (the caller redraws only then).
func (bl *Blink) Update(now time.Time) bool {
	if bl.lastToggle.IsZero() || now.Before(bl.lastToggle) {
		// A reset from a different clock restarts the interval at now.
		bl.lastToggle = now
		return false
	}
	if now.Sub(bl.lastToggle) < bl.interval {
		return false
	}
	bl.visible = !bl.visible
	bl.lastToggle = now
	return true
}

// Reset shows the caret and restarts the interval. Called on every edit so
// the caret never blinks away mid-typing.
func (bl *Blink) Reset(now time.Time) {
	bl.visible = true
	bl.lastToggle = now
}
