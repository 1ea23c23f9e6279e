package render

// Color is a packed 0xRRGGBBAA value.
type Color uint32

const (
	Transparent Color = 0x00000000
	Black       Color = 0x000000FF
	White       Color = 0xFFFFFFFF
)

// RGBA unpacks the color into its channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 { return uint8(c) }

// WithAlpha replaces the alpha channel.
func (c Color) WithAlpha(a uint8) Color {
	return (c &^ 0xFF) | Color(a)
}

// LerpColor interpolates per channel between from and to at t in [0, 1].
func LerpColor(from, to Color, t float64) Color {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	fr, fg, fb, fa := from.RGBA()
	tr, tg, tb, ta := to.RGBA()
	lerp := func(a, b uint8) Color {
		return Color(float64(a) + (float64(b)-float64(a))*t)
	}
	return lerp(fr, tr)<<24 | lerp(fg, tg)<<16 | lerp(fb, tb)<<8 | lerp(fa, ta)
}
