package layout

// Axis selects the main axis of a flex layout.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// Arrangement determines how children are distributed along the main axis
// when the outer size exceeds the content size.
type Arrangement uint8

const (
	ArrangeStart Arrangement = iota
	ArrangeEnd
	ArrangeCenter
	ArrangeSpaceBetween
	ArrangeSpaceAround
	ArrangeSpaceEvenly
	// ArrangeSpaced packs children from the start separated by the
	// policy's Spacing.
	ArrangeSpaced
)

// WeightData is the parent-data hint marking a child as weighted: it
// receives a share of the remaining main-axis space proportional to Weight.
// Fill forces the share as a tight constraint; otherwise the child may
// measure smaller.
type WeightData struct {
	Weight float32
	Fill   bool
}

// FlexPolicy lays children out along one axis in two passes: fixed children
// first with a loosened main-axis constraint, then weighted children
// dividing the remaining space in weight proportion. The cross-axis size is
// the max child cross size clamped to the constraints.
type FlexPolicy struct {
	Axis        Axis
	Arrangement Arrangement

	// Spacing is the gap between adjacent children. Meaningful for
	// ArrangeSpaced but honored by every arrangement.
	Spacing float32

	// CrossAlign positions each child across the main axis:
	// 0 start, 0.5 center, 1 end.
	CrossAlign float32
}

func (p FlexPolicy) mainMax(c Constraints) float32 {
	if p.Axis == Horizontal {
		return c.MaxWidth
	}
	return c.MaxHeight
}

func (p FlexPolicy) crossMax(c Constraints) float32 {
	if p.Axis == Horizontal {
		return c.MaxHeight
	}
	return c.MaxWidth
}

func (p FlexPolicy) Measure(c Constraints, children []Measurable) Size {
	mainMax := p.mainMax(c)
	crossMax := p.crossMax(c)

	type measured struct {
		placeable Placeable
		weighted  bool
	}
	results := make([]measured, len(children))

	totalSpacing := float32(0)
	if len(children) > 1 {
		totalSpacing = p.Spacing * float32(len(children)-1)
	}

	// Pass 1: fixed children, loosened main axis.
	var fixedMain float32
	var totalWeight float32
	weightedCount := 0
	for i, child := range children {
		if wd, ok := child.ParentData().(WeightData); ok && wd.Weight > 0 {
			totalWeight += wd.Weight
			weightedCount++
			continue
		}
		var cc Constraints
		if p.Axis == Horizontal {
			cc = Constraints{MaxWidth: mainMax, MaxHeight: crossMax}
		} else {
			cc = Constraints{MaxHeight: mainMax, MaxWidth: crossMax}
		}
		pl := child.Measure(cc)
		results[i] = measured{placeable: pl}
		fixedMain += p.mainOf(pl.Size())
	}

	// Pass 2: weighted children share the remainder.
	remaining := float32(0)
	if IsBounded(mainMax) {
		remaining = mainMax - fixedMain - totalSpacing
		if remaining < 0 {
			remaining = 0
		}
	}
	for i, child := range children {
		wd, ok := child.ParentData().(WeightData)
		if !ok || wd.Weight <= 0 {
			continue
		}
		var share float32
		if totalWeight > 0 && IsBounded(mainMax) {
			share = remaining * wd.Weight / totalWeight
		}
		var cc Constraints
		switch {
		case !IsBounded(mainMax):
			// Unbounded main axis: weights degrade to loose content.
			if p.Axis == Horizontal {
				cc = Constraints{MaxWidth: Inf, MaxHeight: crossMax}
			} else {
				cc = Constraints{MaxHeight: Inf, MaxWidth: crossMax}
			}
		case wd.Fill:
			if p.Axis == Horizontal {
				cc = Constraints{MinWidth: share, MaxWidth: share, MaxHeight: crossMax}
			} else {
				cc = Constraints{MinHeight: share, MaxHeight: share, MaxWidth: crossMax}
			}
		default:
			if p.Axis == Horizontal {
				cc = Constraints{MaxWidth: share, MaxHeight: crossMax}
			} else {
				cc = Constraints{MaxHeight: share, MaxWidth: crossMax}
			}
		}
		pl := child.Measure(cc)
		results[i] = measured{placeable: pl, weighted: true}
	}

	// Outer sizes.
	var contentMain, maxCross float32
	for _, r := range results {
		sz := r.placeable.Size()
		contentMain += p.mainOf(sz)
		if cv := p.crossOf(sz); cv > maxCross {
			maxCross = cv
		}
	}
	contentMain += totalSpacing

	outerMain := contentMain
	if weightedCount > 0 && IsBounded(mainMax) {
		outerMain = mainMax
	}
	var outer Size
	if p.Axis == Horizontal {
		w, h := c.Constrain(outerMain, maxCross)
		outer = Size{Width: w, Height: h}
		outerMain, maxCross = w, h
	} else {
		w, h := c.Constrain(maxCross, outerMain)
		outer = Size{Width: w, Height: h}
		outerMain, maxCross = h, w
	}

	// Main-axis offsets per arrangement.
	free := outerMain - contentMain
	if free < 0 {
		free = 0
	}
	pos, between := p.arrangeOffsets(free, len(results))
	for _, r := range results {
		sz := r.placeable.Size()
		crossOffset := (maxCross - p.crossOf(sz)) * p.CrossAlign
		if p.Axis == Horizontal {
			r.placeable.PlaceAt(pos, crossOffset)
		} else {
			r.placeable.PlaceAt(crossOffset, pos)
		}
		pos += p.mainOf(sz) + p.Spacing + between
	}

	return outer
}

// arrangeOffsets returns the starting position and the extra gap inserted
// between adjacent children for the free space.
func (p FlexPolicy) arrangeOffsets(free float32, count int) (start, between float32) {
	if count == 0 {
		return 0, 0
	}
	switch p.Arrangement {
	case ArrangeEnd:
		return free, 0
	case ArrangeCenter:
		return free / 2, 0
	case ArrangeSpaceBetween:
		if count > 1 {
			return 0, free / float32(count-1)
		}
		return 0, 0
	case ArrangeSpaceAround:
		gap := free / float32(count)
		return gap / 2, gap
	case ArrangeSpaceEvenly:
		gap := free / float32(count+1)
		return gap, gap
	default: // ArrangeStart, ArrangeSpaced
		return 0, 0
	}
}

func (p FlexPolicy) mainOf(s Size) float32 {
	if p.Axis == Horizontal {
		return s.Width
	}
	return s.Height
}

func (p FlexPolicy) crossOf(s Size) float32 {
	if p.Axis == Horizontal {
		return s.Height
	}
	return s.Width
}

// Intrinsics: sums along the main axis, maxes along the cross axis.

func (p FlexPolicy) MinIntrinsicWidth(children []Measurable, height float32) float32 {
	if p.Axis == Horizontal {
		return p.sumIntrinsic(children, func(m Measurable) float32 { return m.MinIntrinsicWidth(height) })
	}
	return p.maxIntrinsic(children, func(m Measurable) float32 { return m.MinIntrinsicWidth(height) })
}

func (p FlexPolicy) MaxIntrinsicWidth(children []Measurable, height float32) float32 {
	if p.Axis == Horizontal {
		return p.sumIntrinsic(children, func(m Measurable) float32 { return m.MaxIntrinsicWidth(height) })
	}
	return p.maxIntrinsic(children, func(m Measurable) float32 { return m.MaxIntrinsicWidth(height) })
}

func (p FlexPolicy) MinIntrinsicHeight(children []Measurable, width float32) float32 {
	if p.Axis == Vertical {
		return p.sumIntrinsic(children, func(m Measurable) float32 { return m.MinIntrinsicHeight(width) })
	}
	return p.maxIntrinsic(children, func(m Measurable) float32 { return m.MinIntrinsicHeight(width) })
}

func (p FlexPolicy) MaxIntrinsicHeight(children []Measurable, width float32) float32 {
	if p.Axis == Vertical {
		return p.sumIntrinsic(children, func(m Measurable) float32 { return m.MaxIntrinsicHeight(width) })
	}
	return p.maxIntrinsic(children, func(m Measurable) float32 { return m.MaxIntrinsicHeight(width) })
}

func (p FlexPolicy) sumIntrinsic(children []Measurable, q func(Measurable) float32) float32 {
	var sum float32
	for _, child := range children {
		sum += q(child)
	}
	if len(children) > 1 {
		sum += p.Spacing * float32(len(children)-1)
	}
	return sum
}

func (p FlexPolicy) maxIntrinsic(children []Measurable, q func(Measurable) float32) float32 {
	var max float32
	for _, child := range children {
		if v := q(child); v > max {
			max = v
		}
	}
	return max
}
