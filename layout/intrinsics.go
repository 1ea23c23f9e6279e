package layout

import "github.com/agiangrant/reflow/modifier"

// IntrinsicAxis selects which axis an intrinsic wrapper tightens.
type IntrinsicAxis uint8

const (
	IntrinsicWidth IntrinsicAxis = iota
	IntrinsicHeight
)

// IntrinsicSizeElement is a layout modifier that tightens one axis to the
// child's intrinsic query result before delegating measurement: the
// min/max-intrinsic-width/height wrappers.
type IntrinsicSizeElement struct {
	Axis IntrinsicAxis
	// UseMax selects the max intrinsic query; otherwise min.
	UseMax bool
}

func (e IntrinsicSizeElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e IntrinsicSizeElement) Create() modifier.Node {
	return &intrinsicSizeNode{axis: e.Axis, useMax: e.UseMax}
}

func (e IntrinsicSizeElement) Update(n modifier.Node) {
	in := n.(*intrinsicSizeNode)
	in.axis = e.Axis
	in.useMax = e.UseMax
	in.InvalidateMeasure()
}

func (e IntrinsicSizeElement) AlwaysUpdate() bool { return false }

type intrinsicSizeNode struct {
	modifier.NodeBase
	axis   IntrinsicAxis
	useMax bool
}

func (n *intrinsicSizeNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	switch n.axis {
	case IntrinsicWidth:
		h := c.MaxHeight
		var w float32
		if n.useMax {
			w = child.MaxIntrinsicWidth(h)
		} else {
			w = child.MinIntrinsicWidth(h)
		}
		c = c.CopyWithTightWidth(c.ConstrainWidth(w))
	default:
		w := c.MaxWidth
		var h float32
		if n.useMax {
			h = child.MaxIntrinsicHeight(w)
		} else {
			h = child.MinIntrinsicHeight(w)
		}
		c = c.CopyWithTightHeight(c.ConstrainHeight(h))
	}
	pl := child.Measure(c)
	return pl.Size(), Offset{}
}
