package text

import "strings"

// Metrics is the measured extent of a text run.
type Metrics struct {
	Width      float32
	Height     float32
	LineHeight float32
	LineCount  int
}

// Line is one laid-out line: the byte span it covers and its width.
type Line struct {
	Span  Range
	Width float32
}

// LayoutResult is the per-line breakdown of a laid-out text run.
type LayoutResult struct {
	Metrics Metrics
	Lines   []Line
}

// Measurer is the injected measurement boundary. The composition core never
// shapes text itself; cursor placement, hit-to-offset mapping, and intrinsic
// sizes all go through this interface.
type Measurer interface {
	Measure(text string) Metrics

	// OffsetForPosition maps a local (x, y) position to the byte offset of
	// the nearest caret slot.
	OffsetForPosition(text string, x, y float32) int

	// CursorXForOffset returns the x of the caret slot before the given
	// byte offset, on that offset's line.
	CursorXForOffset(text string, offset int) float32

	Layout(text string) LayoutResult
}

// The active measurer is a UI-thread singleton with explicit lifecycle:
// the host installs its shaping backend at startup and tears it down on
// shutdown. When none is installed, the monospace default serves (tests,
// headless runs).
var activeMeasurer Measurer

// InitMeasurer installs the measurement backend. UI-thread only.
func InitMeasurer(m Measurer) { activeMeasurer = m }

// TeardownMeasurer removes the installed backend, restoring the default.
func TeardownMeasurer() { activeMeasurer = nil }

// ActiveMeasurer returns the installed backend, or the monospace default.
func ActiveMeasurer() Measurer {
	if activeMeasurer != nil {
		return activeMeasurer
	}
	return DefaultMonospace
}

// MonospaceMeasurer measures every rune cell at a fixed advance. It is the
// built-in default for tests and headless use.
type MonospaceMeasurer struct {
	CharWidth  float32
	LineHeight float32
}

// DefaultMonospace is the measurer used when no backend is installed.
var DefaultMonospace = &MonospaceMeasurer{CharWidth: 8, LineHeight: 16}

func (m *MonospaceMeasurer) Measure(text string) Metrics {
	lines := strings.Split(text, "\n")
	var widest int
	for _, line := range lines {
		if n := len([]rune(line)); n > widest {
			widest = n
		}
	}
	return Metrics{
		Width:      float32(widest) * m.CharWidth,
		Height:     float32(len(lines)) * m.LineHeight,
		LineHeight: m.LineHeight,
		LineCount:  len(lines),
	}
}

func (m *MonospaceMeasurer) OffsetForPosition(text string, x, y float32) int {
	lineIdx := int(y / m.LineHeight)
	if lineIdx < 0 {
		lineIdx = 0
	}
	lines := strings.Split(text, "\n")
	if lineIdx >= len(lines) {
		lineIdx = len(lines) - 1
	}
	offset := 0
	for i := 0; i < lineIdx; i++ {
		offset += len(lines[i]) + 1 // +1 for the newline
	}
	line := lines[lineIdx]
	col := int(x/m.CharWidth + 0.5)
	if col < 0 {
		col = 0
	}
	for i, r := range line {
		if col == 0 {
			return offset + i
		}
		col--
		_ = r
	}
	return offset + len(line)
}

func (m *MonospaceMeasurer) CursorXForOffset(text string, offset int) float32 {
	offset = clampToBoundary(text, offset)
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	cols := len([]rune(text[lineStart:offset]))
	return float32(cols) * m.CharWidth
}

func (m *MonospaceMeasurer) Layout(text string) LayoutResult {
	res := LayoutResult{Metrics: m.Measure(text)}
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		span := Range{Start: offset, End: offset + len(line)}
		res.Lines = append(res.Lines, Line{
			Span:  span,
			Width: float32(len([]rune(line))) * m.CharWidth,
		})
		offset += len(line) + 1
	}
	return res
}
