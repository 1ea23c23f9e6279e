// Package layout implements the constraints-based measure and place pass:
// the layout node tree, measure policies (flex, box, leaf), intrinsic
// measurement, and the placement records the renderer consumes.
package layout

import "math"

// Inf is the unbounded constraint sentinel.
var Inf = float32(math.Inf(1))

// IsBounded reports whether v is a finite bound.
func IsBounded(v float32) bool {
	return !math.IsInf(float64(v), 1)
}

// Constraints are the immutable measurement bounds a parent passes to a
// child, in logical pixels. Any max may be Inf. Invariant: min <= max and
// mins are finite and non-negative.
type Constraints struct {
	MinWidth  float32
	MaxWidth  float32
	MinHeight float32
	MaxHeight float32
}

// Tight returns constraints that force an exact size.
func Tight(width, height float32) Constraints {
	return Constraints{MinWidth: width, MaxWidth: width, MinHeight: height, MaxHeight: height}
}

// TightWidth forces the width and leaves the height loose up to maxHeight.
func TightWidth(width, maxHeight float32) Constraints {
	return Constraints{MinWidth: width, MaxWidth: width, MaxHeight: maxHeight}
}

// Loose returns constraints from zero up to the given maxima.
func Loose(maxWidth, maxHeight float32) Constraints {
	return Constraints{MaxWidth: maxWidth, MaxHeight: maxHeight}
}

// Unbounded returns fully unconstrained constraints.
func Unbounded() Constraints {
	return Constraints{MaxWidth: Inf, MaxHeight: Inf}
}

// Loosen resets the minima to zero, keeping the maxima.
func (c Constraints) Loosen() Constraints {
	c.MinWidth = 0
	c.MinHeight = 0
	return c
}

// LoosenWidth resets only the width minimum.
func (c Constraints) LoosenWidth() Constraints {
	c.MinWidth = 0
	return c
}

// LoosenHeight resets only the height minimum.
func (c Constraints) LoosenHeight() Constraints {
	c.MinHeight = 0
	return c
}

// Deflate shrinks the constraints by horizontal and vertical insets, for
// measuring a child inside padding. Bounds never go below zero.
func (c Constraints) Deflate(horizontal, vertical float32) Constraints {
	deflate := func(v, by float32) float32 {
		if !IsBounded(v) {
			return v
		}
		v -= by
		if v < 0 {
			return 0
		}
		return v
	}
	return Constraints{
		MinWidth:  deflate(c.MinWidth, horizontal),
		MaxWidth:  deflate(c.MaxWidth, horizontal),
		MinHeight: deflate(c.MinHeight, vertical),
		MaxHeight: deflate(c.MaxHeight, vertical),
	}
}

// Inflate grows the constraints by insets, the inverse of Deflate.
func (c Constraints) Inflate(horizontal, vertical float32) Constraints {
	inflate := func(v, by float32) float32 {
		if !IsBounded(v) {
			return v
		}
		return v + by
	}
	return Constraints{
		MinWidth:  inflate(c.MinWidth, horizontal),
		MaxWidth:  inflate(c.MaxWidth, horizontal),
		MinHeight: inflate(c.MinHeight, vertical),
		MaxHeight: inflate(c.MaxHeight, vertical),
	}
}

// Enforce clamps these constraints to fit within other.
func (c Constraints) Enforce(other Constraints) Constraints {
	return Constraints{
		MinWidth:  clamp(c.MinWidth, other.MinWidth, other.MaxWidth),
		MaxWidth:  clamp(c.MaxWidth, other.MinWidth, other.MaxWidth),
		MinHeight: clamp(c.MinHeight, other.MinHeight, other.MaxHeight),
		MaxHeight: clamp(c.MaxHeight, other.MinHeight, other.MaxHeight),
	}
}

// CopyWithMaxWidth replaces the width maximum.
func (c Constraints) CopyWithMaxWidth(max float32) Constraints {
	c.MaxWidth = max
	if c.MinWidth > max {
		c.MinWidth = max
	}
	return c
}

// CopyWithMaxHeight replaces the height maximum.
func (c Constraints) CopyWithMaxHeight(max float32) Constraints {
	c.MaxHeight = max
	if c.MinHeight > max {
		c.MinHeight = max
	}
	return c
}

// CopyWithTightWidth forces the width.
func (c Constraints) CopyWithTightWidth(width float32) Constraints {
	c.MinWidth = width
	c.MaxWidth = width
	return c
}

// CopyWithTightHeight forces the height.
func (c Constraints) CopyWithTightHeight(height float32) Constraints {
	c.MinHeight = height
	c.MaxHeight = height
	return c
}

// HasBoundedWidth reports whether the width maximum is finite.
func (c Constraints) HasBoundedWidth() bool { return IsBounded(c.MaxWidth) }

// HasBoundedHeight reports whether the height maximum is finite.
func (c Constraints) HasBoundedHeight() bool { return IsBounded(c.MaxHeight) }

// HasTightWidth reports whether the width is forced to one value.
func (c Constraints) HasTightWidth() bool { return c.MinWidth == c.MaxWidth }

// HasTightHeight reports whether the height is forced to one value.
func (c Constraints) HasTightHeight() bool { return c.MinHeight == c.MaxHeight }

// IsTight reports whether both axes are forced.
func (c Constraints) IsTight() bool { return c.HasTightWidth() && c.HasTightHeight() }

// Constrain clamps a size into the constraints.
func (c Constraints) Constrain(width, height float32) (float32, float32) {
	return clamp(width, c.MinWidth, c.MaxWidth), clamp(height, c.MinHeight, c.MaxHeight)
}

// ConstrainWidth clamps a width into the constraints.
func (c Constraints) ConstrainWidth(width float32) float32 {
	return clamp(width, c.MinWidth, c.MaxWidth)
}

// ConstrainHeight clamps a height into the constraints.
func (c Constraints) ConstrainHeight(height float32) float32 {
	return clamp(height, c.MinHeight, c.MaxHeight)
}

// IsSatisfiedBy reports whether the size lies within the constraints.
func (c Constraints) IsSatisfiedBy(width, height float32) bool {
	return width >= c.MinWidth && width <= c.MaxWidth &&
		height >= c.MinHeight && height <= c.MaxHeight
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
