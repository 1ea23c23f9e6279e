package layout

// AlignData is the parent-data hint a child attaches to override the box's
// default alignment.
type AlignData struct {
	Alignment Alignment
}

// BoxPolicy stacks all children on top of each other. Children measure with
// the incoming constraints loosened (unless PropagateMinConstraints), the
// outer size is the max child size clamped to the constraints, and each
// child is aligned inside it by its alignment parent-data, defaulting to the
// box's Alignment.
type BoxPolicy struct {
	Alignment               Alignment
	PropagateMinConstraints bool
}

func (p BoxPolicy) Measure(c Constraints, children []Measurable) Size {
	if len(children) == 0 {
		w, h := c.Constrain(0, 0)
		return Size{Width: w, Height: h}
	}

	childConstraints := c
	if !p.PropagateMinConstraints {
		childConstraints = c.Loosen()
	}

	placeables := make([]Placeable, len(children))
	var maxW, maxH float32
	for i, child := range children {
		pl := child.Measure(childConstraints)
		placeables[i] = pl
		sz := pl.Size()
		if sz.Width > maxW {
			maxW = sz.Width
		}
		if sz.Height > maxH {
			maxH = sz.Height
		}
	}

	w, h := c.Constrain(maxW, maxH)
	outer := Size{Width: w, Height: h}

	for i, pl := range placeables {
		align := p.Alignment
		if ad, ok := children[i].ParentData().(AlignData); ok {
			align = ad.Alignment
		}
		off := align.Align(pl.Size(), outer)
		pl.PlaceAt(off.X, off.Y)
	}
	return outer
}

func (p BoxPolicy) MinIntrinsicWidth(children []Measurable, height float32) float32 {
	var max float32
	for _, child := range children {
		if v := child.MinIntrinsicWidth(height); v > max {
			max = v
		}
	}
	return max
}

func (p BoxPolicy) MaxIntrinsicWidth(children []Measurable, height float32) float32 {
	var max float32
	for _, child := range children {
		if v := child.MaxIntrinsicWidth(height); v > max {
			max = v
		}
	}
	return max
}

func (p BoxPolicy) MinIntrinsicHeight(children []Measurable, width float32) float32 {
	var max float32
	for _, child := range children {
		if v := child.MinIntrinsicHeight(width); v > max {
			max = v
		}
	}
	return max
}

func (p BoxPolicy) MaxIntrinsicHeight(children []Measurable, width float32) float32 {
	var max float32
	for _, child := range children {
		if v := child.MaxIntrinsicHeight(width); v > max {
			max = v
		}
	}
	return max
}
