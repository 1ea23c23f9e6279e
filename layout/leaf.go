package layout

// LeafPolicy measures a childless node at a fixed content size clamped to
// the incoming constraints. Text and other leaf elements set the size from
// their measured content before each pass.
type LeafPolicy struct {
	Width  float32
	Height float32
}

func (p LeafPolicy) Measure(c Constraints, children []Measurable) Size {
	w, h := c.Constrain(p.Width, p.Height)
	return Size{Width: w, Height: h}
}

func (p LeafPolicy) MinIntrinsicWidth(children []Measurable, height float32) float32 {
	return p.Width
}

func (p LeafPolicy) MaxIntrinsicWidth(children []Measurable, height float32) float32 {
	return p.Width
}

func (p LeafPolicy) MinIntrinsicHeight(children []Measurable, width float32) float32 {
	return p.Height
}

func (p LeafPolicy) MaxIntrinsicHeight(children []Measurable, width float32) float32 {
	return p.Height
}
