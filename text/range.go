// Package text implements the editable text core: byte-offset ranges, an
// editing buffer with selection and IME composition, reactive field state,
// and the measurement boundary the renderer plugs into.
package text

import "unicode/utf8"

// Range is a half-open [Start, End) span of UTF-8 byte offsets. Start may
// exceed End while a selection is dragged backwards; Normalized orders the
// endpoints.
type Range struct {
	Start int
	End   int
}

// Collapsed reports whether the range is a caret (zero width).
func (r Range) Collapsed() bool { return r.Start == r.End }

// Normalized returns the range with Start <= End.
func (r Range) Normalized() Range {
	if r.Start > r.End {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Length returns the byte length of the normalized range.
func (r Range) Length() int {
	n := r.Normalized()
	return n.End - n.Start
}

// Contains reports whether the byte offset falls inside the normalized
// range.
func (r Range) Contains(offset int) bool {
	n := r.Normalized()
	return offset >= n.Start && offset < n.End
}

// SafeSlice slices s by the range, clamping both endpoints to the nearest
// rune boundaries at or before them. Any (Start, End) pair yields valid
// UTF-8; reapplying the result's own bounds returns the same slice.
func (r Range) SafeSlice(s string) string {
	n := r.Normalized()
	start := clampToBoundary(s, n.Start)
	end := clampToBoundary(s, n.End)
	if start > end {
		start = end
	}
	return s[start:end]
}

// ClampTo bounds both endpoints to the rune boundaries of s, preserving
// direction.
func (r Range) ClampTo(s string) Range {
	return Range{Start: clampToBoundary(s, r.Start), End: clampToBoundary(s, r.End)}
}

// clampToBoundary clamps a byte offset into s to [0, len] and backs up to
// the start of the rune it lands inside.
func clampToBoundary(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= len(s) {
		return len(s)
	}
	for offset > 0 && !utf8.RuneStart(s[offset]) {
		offset--
	}
	return offset
}
