package layout

import "github.com/agiangrant/reflow/modifier"

// PaddingElement insets the content by per-edge amounts.
type PaddingElement struct {
	Top, Right, Bottom, Left float32
}

// PaddingAll returns uniform padding.
func PaddingAll(v float32) PaddingElement {
	return PaddingElement{Top: v, Right: v, Bottom: v, Left: v}
}

func (e PaddingElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e PaddingElement) Create() modifier.Node {
	return &paddingNode{pad: e}
}

func (e PaddingElement) Update(n modifier.Node) {
	pn := n.(*paddingNode)
	pn.pad = e
	pn.InvalidateMeasure()
}

func (e PaddingElement) AlwaysUpdate() bool { return false }

type paddingNode struct {
	modifier.NodeBase
	pad PaddingElement
}

func (n *paddingNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	h := n.pad.Left + n.pad.Right
	v := n.pad.Top + n.pad.Bottom
	pl := child.Measure(c.Deflate(h, v))
	sz := pl.Size()
	w, ht := c.Constrain(sz.Width+h, sz.Height+v)
	return Size{Width: w, Height: ht}, Offset{X: n.pad.Left, Y: n.pad.Top}
}

func (n *paddingNode) MinIntrinsicWidth(child Measurable, height float32) float32 {
	return child.MinIntrinsicWidth(height) + n.pad.Left + n.pad.Right
}

func (n *paddingNode) MaxIntrinsicWidth(child Measurable, height float32) float32 {
	return child.MaxIntrinsicWidth(height) + n.pad.Left + n.pad.Right
}

func (n *paddingNode) MinIntrinsicHeight(child Measurable, width float32) float32 {
	return child.MinIntrinsicHeight(width) + n.pad.Top + n.pad.Bottom
}

func (n *paddingNode) MaxIntrinsicHeight(child Measurable, width float32) float32 {
	return child.MaxIntrinsicHeight(width) + n.pad.Top + n.pad.Bottom
}

// SizeElement forces one or both dimensions. A negative value leaves that
// axis to the incoming constraints.
type SizeElement struct {
	Width  float32
	Height float32
}

// ExactSize forces both dimensions.
func ExactSize(w, h float32) SizeElement {
	return SizeElement{Width: w, Height: h}
}

// ExactWidth forces only the width.
func ExactWidth(w float32) SizeElement {
	return SizeElement{Width: w, Height: -1}
}

// ExactHeight forces only the height.
func ExactHeight(h float32) SizeElement {
	return SizeElement{Width: -1, Height: h}
}

func (e SizeElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e SizeElement) Create() modifier.Node {
	return &sizeNode{spec: e}
}

func (e SizeElement) Update(n modifier.Node) {
	sn := n.(*sizeNode)
	sn.spec = e
	sn.InvalidateMeasure()
}

func (e SizeElement) AlwaysUpdate() bool { return false }

type sizeNode struct {
	modifier.NodeBase
	spec SizeElement
}

func (n *sizeNode) apply(c Constraints) Constraints {
	if n.spec.Width >= 0 {
		c = c.CopyWithTightWidth(c.ConstrainWidth(n.spec.Width))
	}
	if n.spec.Height >= 0 {
		c = c.CopyWithTightHeight(c.ConstrainHeight(n.spec.Height))
	}
	return c
}

func (n *sizeNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	pl := child.Measure(n.apply(c))
	return pl.Size(), Offset{}
}

func (n *sizeNode) MinIntrinsicWidth(child Measurable, height float32) float32 {
	if n.spec.Width >= 0 {
		return n.spec.Width
	}
	return child.MinIntrinsicWidth(height)
}

func (n *sizeNode) MaxIntrinsicWidth(child Measurable, height float32) float32 {
	if n.spec.Width >= 0 {
		return n.spec.Width
	}
	return child.MaxIntrinsicWidth(height)
}

func (n *sizeNode) MinIntrinsicHeight(child Measurable, width float32) float32 {
	if n.spec.Height >= 0 {
		return n.spec.Height
	}
	return child.MinIntrinsicHeight(width)
}

func (n *sizeNode) MaxIntrinsicHeight(child Measurable, width float32) float32 {
	if n.spec.Height >= 0 {
		return n.spec.Height
	}
	return child.MaxIntrinsicHeight(width)
}

// FillMaxElement expands to the incoming maximum on the selected axes, when
// bounded.
type FillMaxElement struct {
	Width  bool
	Height bool
}

func (e FillMaxElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e FillMaxElement) Create() modifier.Node {
	return &fillMaxNode{spec: e}
}

func (e FillMaxElement) Update(n modifier.Node) {
	fn := n.(*fillMaxNode)
	fn.spec = e
	fn.InvalidateMeasure()
}

func (e FillMaxElement) AlwaysUpdate() bool { return false }

type fillMaxNode struct {
	modifier.NodeBase
	spec FillMaxElement
}

func (n *fillMaxNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	if n.spec.Width && c.HasBoundedWidth() {
		c = c.CopyWithTightWidth(c.MaxWidth)
	}
	if n.spec.Height && c.HasBoundedHeight() {
		c = c.CopyWithTightHeight(c.MaxHeight)
	}
	pl := child.Measure(c)
	return pl.Size(), Offset{}
}

// WeightElement attaches flex weight parent-data; it does not itself
// measure.
type WeightElement struct {
	Weight float32
	Fill   bool
}

func (e WeightElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e WeightElement) Create() modifier.Node {
	return &weightNode{data: WeightData{Weight: e.Weight, Fill: e.Fill}}
}

func (e WeightElement) Update(n modifier.Node) {
	wn := n.(*weightNode)
	wn.data = WeightData{Weight: e.Weight, Fill: e.Fill}
	wn.InvalidateMeasure()
}

func (e WeightElement) AlwaysUpdate() bool { return false }

type weightNode struct {
	modifier.NodeBase
	data WeightData
}

func (n *weightNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	pl := child.Measure(c)
	return pl.Size(), Offset{}
}

func (n *weightNode) ModifyParentData(data any) any { return n.data }

// AlignElement attaches box alignment parent-data.
type AlignElement struct {
	Alignment Alignment
}

func (e AlignElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e AlignElement) Create() modifier.Node {
	return &alignNode{data: AlignData{Alignment: e.Alignment}}
}

func (e AlignElement) Update(n modifier.Node) {
	an := n.(*alignNode)
	an.data = AlignData{Alignment: e.Alignment}
	an.InvalidateMeasure()
}

func (e AlignElement) AlwaysUpdate() bool { return false }

type alignNode struct {
	modifier.NodeBase
	data AlignData
}

func (n *alignNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	pl := child.Measure(c)
	return pl.Size(), Offset{}
}

func (n *alignNode) ModifyParentData(data any) any { return n.data }

// ZIndexElement overrides the node's z ordering within its parent.
type ZIndexElement struct {
	Z int
}

func (e ZIndexElement) Capabilities() modifier.Capabilities { return modifier.CapLayout }

func (e ZIndexElement) Create() modifier.Node {
	return &zIndexNode{z: e.Z}
}

func (e ZIndexElement) Update(n modifier.Node) {
	zn := n.(*zIndexNode)
	zn.z = e.Z
	zn.applyZ()
}

func (e ZIndexElement) AlwaysUpdate() bool { return false }

type zIndexNode struct {
	modifier.NodeBase
	z int
}

func (n *zIndexNode) OnAttach() { n.applyZ() }

func (n *zIndexNode) applyZ() {
	if o, ok := n.Owner().(interface{ SetZIndex(int) }); ok {
		o.SetZIndex(n.z)
	}
}

func (n *zIndexNode) MeasureLayout(child Measurable, c Constraints) (Size, Offset) {
	pl := child.Measure(c)
	return pl.Size(), Offset{}
}
