package event

// Bounds is an axis-aligned rectangle in logical window coordinates.
// Hit regions and scene targets carry Bounds resolved at scene-build time.
type Bounds struct {
	X, Y          float32
	Width, Height float32
}

// Contains reports whether the point lies inside the bounds.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}

// LocalPoint converts window coordinates to coordinates relative to the
// bounds origin.
func (b Bounds) LocalPoint(x, y float32) (localX, localY float32) {
	return x - b.X, y - b.Y
}

// Intersects reports whether two bounds overlap.
func (b Bounds) Intersects(o Bounds) bool {
	return b.X < o.X+o.Width && o.X < b.X+b.Width &&
		b.Y < o.Y+o.Height && o.Y < b.Y+b.Height
}

// ContainsRounded reports whether the point lies inside the bounds after
// applying a rounded-corner clip with the given radius. A zero radius is a
// plain rectangle test.
func (b Bounds) ContainsRounded(x, y, radius float32) bool {
	if !b.Contains(x, y) {
		return false
	}
	if radius <= 0 {
		return true
	}
	// Clamp the radius so opposing corners cannot overlap.
	max := b.Width
	if b.Height < max {
		max = b.Height
	}
	if radius > max/2 {
		radius = max / 2
	}
	// Find the nearest corner circle center; points outside the circle but
	// inside the corner square are clipped away.
	var cx, cy float32
	switch {
	case x < b.X+radius && y < b.Y+radius:
		cx, cy = b.X+radius, b.Y+radius
	case x > b.X+b.Width-radius && y < b.Y+radius:
		cx, cy = b.X+b.Width-radius, b.Y+radius
	case x < b.X+radius && y > b.Y+b.Height-radius:
		cx, cy = b.X+radius, b.Y+b.Height-radius
	case x > b.X+b.Width-radius && y > b.Y+b.Height-radius:
		cx, cy = b.X+b.Width-radius, b.Y+b.Height-radius
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}
