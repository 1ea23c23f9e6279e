package layout

import "github.com/agiangrant/reflow/modifier"

// Size is a measured width and height in logical pixels.
type Size struct {
	Width, Height float32
}

// Offset is a position relative to a parent's content origin.
type Offset struct {
	X, Y float32
}

// Measurable produces a Placeable when measured with constraints, and
// answers intrinsic size queries without committing to a measurement.
type Measurable interface {
	Measure(c Constraints) Placeable

	MinIntrinsicWidth(height float32) float32
	MaxIntrinsicWidth(height float32) float32
	MinIntrinsicHeight(width float32) float32
	MaxIntrinsicHeight(width float32) float32

	// ParentData returns layout hints attached by modifiers for the
	// parent's policy (weights, alignment), or nil.
	ParentData() any
}

// Placeable is a measured child; the parent's policy places it at an offset
// relative to the parent's content origin.
type Placeable interface {
	Size() Size
	PlaceAt(x, y float32)
}

// MeasurePolicy measures a node's children under incoming constraints,
// places each produced placeable, and returns the node's content size.
type MeasurePolicy interface {
	Measure(c Constraints, children []Measurable) Size

	MinIntrinsicWidth(children []Measurable, height float32) float32
	MaxIntrinsicWidth(children []Measurable, height float32) float32
	MinIntrinsicHeight(children []Measurable, width float32) float32
	MaxIntrinsicHeight(children []Measurable, width float32) float32
}

// IntrinsicKind names one of the four intrinsic queries, for caching.
type IntrinsicKind uint8

const (
	MinIntrinsicW IntrinsicKind = iota
	MaxIntrinsicW
	MinIntrinsicH
	MaxIntrinsicH
)

// LayoutModifierNode is a modifier node that participates in measurement:
// it wraps the element's inner content (remaining chain plus children) in a
// proxy measurable, measures it under constraints of its choosing, and
// returns its own size together with the content offset.
type LayoutModifierNode interface {
	modifier.Node
	MeasureLayout(child Measurable, c Constraints) (Size, Offset)
}

// IntrinsicModifierNode optionally refines the intrinsic answers of a
// layout modifier. Modifiers that do not implement it delegate queries to
// their wrapped content unchanged.
type IntrinsicModifierNode interface {
	MinIntrinsicWidth(child Measurable, height float32) float32
	MaxIntrinsicWidth(child Measurable, height float32) float32
	MinIntrinsicHeight(child Measurable, width float32) float32
	MaxIntrinsicHeight(child Measurable, width float32) float32
}

// ParentDataModifierNode attaches layout hints for the parent's policy.
// During measurement the hints from all such nodes in the chain are folded
// left to right.
type ParentDataModifierNode interface {
	ModifyParentData(data any) any
}

// Alignment positions a child inside a larger box, per axis in [0, 1]:
// 0 = start, 0.5 = center, 1 = end.
type Alignment struct {
	Horizontal float32
	Vertical   float32
}

var (
	AlignTopStart     = Alignment{0, 0}
	AlignTopCenter    = Alignment{0.5, 0}
	AlignTopEnd       = Alignment{1, 0}
	AlignCenterStart  = Alignment{0, 0.5}
	AlignCenter       = Alignment{0.5, 0.5}
	AlignCenterEnd    = Alignment{1, 0.5}
	AlignBottomStart  = Alignment{0, 1}
	AlignBottomCenter = Alignment{0.5, 1}
	AlignBottomEnd    = Alignment{1, 1}
)

// Align computes the child offset inside the outer size.
func (a Alignment) Align(child, outer Size) Offset {
	return Offset{
		X: (outer.Width - child.Width) * a.Horizontal,
		Y: (outer.Height - child.Height) * a.Vertical,
	}
}
