package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// undoState captures buffer content and selection for undo/redo.
type undoState struct {
	text      string
	selection Range
}

const defaultMaxUndo = 100

// Buffer is the core editing engine behind a text field: UTF-8 content, a
// directional selection whose End is the caret, an optional IME composition
// region, and undo/redo stacks. All offsets are byte offsets. Not
// goroutine-safe; the UI thread owns it.
type Buffer struct {
	text string

	// selection.Start is the anchor, selection.End the caret. Equal when
	// there is no selection.
	selection Range

	composition    Range
	hasComposition bool

	// desiredColumn keeps the x position across vertical moves through
	// short lines. Negative when unset.
	desiredColumn float32

	singleLine bool

	undoStack []undoState
	redoStack []undoState
	maxUndo   int

	onChange func(text string)
}

// NewBuffer creates an empty multi-line buffer.
func NewBuffer() *Buffer {
	return &Buffer{desiredColumn: -1, maxUndo: defaultMaxUndo}
}

// SetSingleLine switches newline stripping on insert. Existing content is
// not altered.
func (b *Buffer) SetSingleLine(single bool) { b.singleLine = single }

// SingleLine reports whether inserts strip newlines.
func (b *Buffer) SingleLine() bool { return b.singleLine }

// OnChange installs a callback run after every content mutation.
func (b *Buffer) OnChange(fn func(text string)) { b.onChange = fn }

// Text returns the content.
func (b *Buffer) Text() string { return b.text }

// Selection returns the current selection; Start is the anchor, End the
// caret.
func (b *Buffer) Selection() Range { return b.selection }

// Cursor returns the caret byte offset.
func (b *Buffer) Cursor() int { return b.selection.End }

// HasSelection reports whether the selection is non-collapsed.
func (b *Buffer) HasSelection() bool { return !b.selection.Collapsed() }

// SelectedText returns the selected substring.
func (b *Buffer) SelectedText() string { return b.selection.SafeSlice(b.text) }

// Composition returns the IME composition region, if one is marked.
func (b *Buffer) Composition() (Range, bool) { return b.composition, b.hasComposition }

// SetText replaces all content, collapsing the selection to the end.
func (b *Buffer) SetText(text string) {
	if b.singleLine {
		text = stripNewlines(text)
	}
	b.saveUndo()
	b.text = text
	b.collapseTo(len(text))
	b.hasComposition = false
	b.notifyChange()
}

// Insert commits text at the caret, replacing the selection if one exists.
// Typing, paste, and IME commit all come through here.
func (b *Buffer) Insert(s string) {
	b.Replace(b.selection, s)
}

// Delete removes the range, placing the caret at its start.
func (b *Buffer) Delete(r Range) {
	b.Replace(r, "")
}

// Replace substitutes the range with s and places the caret after it.
func (b *Buffer) Replace(r Range, s string) {
	r = r.ClampTo(b.text).Normalized()
	if b.singleLine {
		s = stripNewlines(s)
	}
	b.saveUndo()
	b.text = b.text[:r.Start] + s + b.text[r.End:]
	b.collapseTo(r.Start + len(s))
	b.hasComposition = false
	b.notifyChange()
}

// PlaceCursorBeforeChar collapses the selection to the rune boundary at or
// before pos.
func (b *Buffer) PlaceCursorBeforeChar(pos int) {
	b.collapseTo(clampToBoundary(b.text, pos))
}

// SetSelection sets the selection, clamping both endpoints to rune
// boundaries. Direction is preserved.
func (b *Buffer) SetSelection(r Range) {
	b.selection = r.ClampTo(b.text)
	b.desiredColumn = -1
}

// SelectAll selects the whole content with the caret at the end.
func (b *Buffer) SelectAll() {
	b.selection = Range{Start: 0, End: len(b.text)}
	b.desiredColumn = -1
}

// SetComposition marks the in-progress IME region.
func (b *Buffer) SetComposition(r Range) {
	b.composition = r.ClampTo(b.text).Normalized()
	b.hasComposition = true
}

// ClearComposition removes the IME region without touching content.
func (b *Buffer) ClearComposition() {
	b.composition = Range{}
	b.hasComposition = false
}

// DeleteSurrounding removes beforeBytes before the caret and afterBytes
// after it, as IME backends request. Both counts are boundary-clamped.
func (b *Buffer) DeleteSurrounding(beforeBytes, afterBytes int) {
	caret := b.selection.End
	start := clampToBoundary(b.text, caret-beforeBytes)
	end := clampToBoundary(b.text, caret+afterBytes)
	if start == end {
		return
	}
	b.saveUndo()
	b.text = b.text[:start] + b.text[end:]
	b.collapseTo(start)
	b.hasComposition = false
	b.notifyChange()
}

// DeleteBackward removes the selection, or the grapheme cluster before the
// caret.
func (b *Buffer) DeleteBackward() {
	if b.HasSelection() {
		b.Delete(b.selection)
		return
	}
	caret := b.selection.End
	prev := b.prevGrapheme(caret)
	if prev == caret {
		return
	}
	b.Delete(Range{Start: prev, End: caret})
}

// DeleteForward removes the selection, or the grapheme cluster after the
// caret.
func (b *Buffer) DeleteForward() {
	if b.HasSelection() {
		b.Delete(b.selection)
		return
	}
	caret := b.selection.End
	next := b.nextGrapheme(caret)
	if next == caret {
		return
	}
	b.Delete(Range{Start: caret, End: next})
}

// DeleteWordBackward removes from the previous word boundary to the caret.
func (b *Buffer) DeleteWordBackward() {
	if b.HasSelection() {
		b.Delete(b.selection)
		return
	}
	caret := b.selection.End
	start := b.wordStart(caret)
	if start == caret {
		return
	}
	b.Delete(Range{Start: start, End: caret})
}

// DeleteWordForward removes from the caret to the next word boundary.
func (b *Buffer) DeleteWordForward() {
	if b.HasSelection() {
		b.Delete(b.selection)
		return
	}
	caret := b.selection.End
	end := b.wordEnd(caret)
	if end == caret {
		return
	}
	b.Delete(Range{Start: caret, End: end})
}

// Cursor motion. With extend the anchor stays put; otherwise a collapsed
// move from a selection lands on the selection edge in the travel
// direction.

// MoveLeft moves the caret one grapheme cluster left.
func (b *Buffer) MoveLeft(extend bool) {
	if !extend && b.HasSelection() {
		b.collapseTo(b.selection.Normalized().Start)
		return
	}
	b.moveCaret(b.prevGrapheme(b.selection.End), extend)
}

// MoveRight moves the caret one grapheme cluster right.
func (b *Buffer) MoveRight(extend bool) {
	if !extend && b.HasSelection() {
		b.collapseTo(b.selection.Normalized().End)
		return
	}
	b.moveCaret(b.nextGrapheme(b.selection.End), extend)
}

// MoveWordLeft moves the caret to the previous word start.
func (b *Buffer) MoveWordLeft(extend bool) {
	b.moveCaret(b.wordStart(b.selection.End), extend)
}

// MoveWordRight moves the caret past the current or next word.
func (b *Buffer) MoveWordRight(extend bool) {
	b.moveCaret(b.wordEnd(b.selection.End), extend)
}

// MoveLineStart moves the caret to the start of its line.
func (b *Buffer) MoveLineStart(extend bool) {
	b.moveCaret(b.lineStart(b.selection.End), extend)
}

// MoveLineEnd moves the caret to the end of its line.
func (b *Buffer) MoveLineEnd(extend bool) {
	b.moveCaret(b.lineEnd(b.selection.End), extend)
}

// MoveToStart moves the caret to the beginning of the content.
func (b *Buffer) MoveToStart(extend bool) { b.moveCaret(0, extend) }

// MoveToEnd moves the caret to the end of the content.
func (b *Buffer) MoveToEnd(extend bool) { b.moveCaret(len(b.text), extend) }

// MoveUp moves the caret one visual line up, holding the desired column
// across short lines. Measurement goes through m.
func (b *Buffer) MoveUp(extend bool, m Measurer) { b.moveVertical(-1, extend, m) }

// MoveDown moves the caret one visual line down.
func (b *Buffer) MoveDown(extend bool, m Measurer) { b.moveVertical(1, extend, m) }

func (b *Buffer) moveVertical(dir int, extend bool, m Measurer) {
	layout := m.Layout(b.text)
	if len(layout.Lines) == 0 {
		return
	}
	caret := b.selection.End
	lineIdx := 0
	for i, line := range layout.Lines {
		if caret >= line.Span.Start && caret <= line.Span.End {
			lineIdx = i
			break
		}
	}
	target := lineIdx + dir
	if target < 0 || target >= len(layout.Lines) {
		// Past the first or last line: jump to the content edge.
		if dir < 0 {
			b.moveCaret(0, extend)
		} else {
			b.moveCaret(len(b.text), extend)
		}
		return
	}
	x := m.CursorXForOffset(b.text, caret)
	if b.desiredColumn < 0 {
		b.desiredColumn = x
	}
	lh := layout.Metrics.LineHeight
	offset := m.OffsetForPosition(b.text, b.desiredColumn, (float32(target)+0.5)*lh)
	desired := b.desiredColumn
	b.moveCaret(offset, extend)
	b.desiredColumn = desired // moveCaret resets it; vertical motion keeps it
}

// Undo reverts the last content mutation. Returns whether anything changed.
func (b *Buffer) Undo() bool {
	if len(b.undoStack) == 0 {
		return false
	}
	b.redoStack = append(b.redoStack, undoState{text: b.text, selection: b.selection})
	state := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.restore(state)
	return true
}

// Redo reapplies the last undone mutation.
func (b *Buffer) Redo() bool {
	if len(b.redoStack) == 0 {
		return false
	}
	b.undoStack = append(b.undoStack, undoState{text: b.text, selection: b.selection})
	state := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.restore(state)
	return true
}

func (b *Buffer) restore(state undoState) {
	b.text = state.text
	b.selection = state.selection.ClampTo(b.text)
	b.hasComposition = false
	b.desiredColumn = -1
	b.notifyChange()
}

// saveUndo pushes the current state before a content mutation and clears
// the redo stack.
func (b *Buffer) saveUndo() {
	b.undoStack = append(b.undoStack, undoState{text: b.text, selection: b.selection})
	if len(b.undoStack) > b.maxUndo {
		b.undoStack = b.undoStack[1:]
	}
	b.redoStack = nil
}

func (b *Buffer) collapseTo(offset int) {
	offset = clampToBoundary(b.text, offset)
	b.selection = Range{Start: offset, End: offset}
	b.desiredColumn = -1
}

func (b *Buffer) moveCaret(offset int, extend bool) {
	offset = clampToBoundary(b.text, offset)
	if extend {
		b.selection.End = offset
		b.desiredColumn = -1
		return
	}
	b.collapseTo(offset)
}

func (b *Buffer) notifyChange() {
	if b.onChange != nil {
		b.onChange(b.text)
	}
}

// prevGrapheme returns the byte offset of the grapheme cluster start before
// offset, or offset when at the beginning.
func (b *Buffer) prevGrapheme(offset int) int {
	if offset <= 0 {
		return 0
	}
	gr := uniseg.NewGraphemes(b.text)
	prev := 0
	pos := 0
	for gr.Next() {
		next := pos + len(gr.Str())
		if next >= offset {
			return prev
		}
		prev = pos
		pos = next
	}
	return prev
}

// nextGrapheme returns the byte offset just past the grapheme cluster at
// offset, or offset when at the end.
func (b *Buffer) nextGrapheme(offset int) int {
	if offset >= len(b.text) {
		return len(b.text)
	}
	gr := uniseg.NewGraphemes(b.text)
	pos := 0
	for gr.Next() {
		next := pos + len(gr.Str())
		if next > offset {
			return next
		}
		pos = next
	}
	return len(b.text)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// wordStart scans left over separators, then over the word.
func (b *Buffer) wordStart(offset int) int {
	offset = clampToBoundary(b.text, offset)
	for offset > 0 {
		r, size := utf8.DecodeLastRuneInString(b.text[:offset])
		if isWordRune(r) {
			break
		}
		offset -= size
	}
	for offset > 0 {
		r, size := utf8.DecodeLastRuneInString(b.text[:offset])
		if !isWordRune(r) {
			break
		}
		offset -= size
	}
	return offset
}

// wordEnd scans right over separators, then over the word.
func (b *Buffer) wordEnd(offset int) int {
	offset = clampToBoundary(b.text, offset)
	for offset < len(b.text) {
		r, size := utf8.DecodeRuneInString(b.text[offset:])
		if isWordRune(r) {
			break
		}
		offset += size
	}
	for offset < len(b.text) {
		r, size := utf8.DecodeRuneInString(b.text[offset:])
		if !isWordRune(r) {
			break
		}
		offset += size
	}
	return offset
}

func (b *Buffer) lineStart(offset int) int {
	offset = clampToBoundary(b.text, offset)
	return strings.LastIndexByte(b.text[:offset], '\n') + 1
}

func (b *Buffer) lineEnd(offset int) int {
	offset = clampToBoundary(b.text, offset)
	if i := strings.IndexByte(b.text[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(b.text)
}

func stripNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.ReplaceAll(s, "\r", "")
}
