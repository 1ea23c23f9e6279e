package widgets

import (
	"strconv"
	"strings"

	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/modifier"
	"github.com/agiangrant/reflow/render"
)

// Style parses a space-separated utility-class string into modifier
// elements, a shorthand over the element constructors for the common
// styling axes. Supported classes:
//
//	p-N px-N py-N pt-N pr-N pb-N pl-N   padding (N on the 4px scale)
//	w-N h-N size-N                      exact size
//	w-full h-full size-full             fill the bounded maximum
//	grow grow-N                         flex weight
//	self-start self-center self-end     box alignment
//	bg-NAME bg-[#RRGGBB] bg-[#RRGGBBAA] background fill
//	rounded rounded-N                   background corner radius
//	z-N                                 z index
//
// Arbitrary pixel values use brackets: w-[250], p-[6]. Unknown classes are
// ignored, so a string can carry hints for other layers.
func Style(classes string) []modifier.Element {
	var (
		out     []modifier.Element
		pad     layout.PaddingElement
		hasPad  bool
		bg      render.Color
		hasBG   bool
		radius  float32
		rounded bool
	)

	for _, class := range strings.Fields(classes) {
		name, value := splitClass(class)
		switch name {
		case "p":
			if v, ok := scaled(value); ok {
				pad, hasPad = layout.PaddingAll(v), true
			}
		case "px":
			if v, ok := scaled(value); ok {
				pad.Left, pad.Right, hasPad = v, v, true
			}
		case "py":
			if v, ok := scaled(value); ok {
				pad.Top, pad.Bottom, hasPad = v, v, true
			}
		case "pt":
			if v, ok := scaled(value); ok {
				pad.Top, hasPad = v, true
			}
		case "pr":
			if v, ok := scaled(value); ok {
				pad.Right, hasPad = v, true
			}
		case "pb":
			if v, ok := scaled(value); ok {
				pad.Bottom, hasPad = v, true
			}
		case "pl":
			if v, ok := scaled(value); ok {
				pad.Left, hasPad = v, true
			}
		case "w":
			if value == "full" {
				out = append(out, layout.FillMaxElement{Width: true})
			} else if v, ok := scaled(value); ok {
				out = append(out, layout.ExactWidth(v))
			}
		case "h":
			if value == "full" {
				out = append(out, layout.FillMaxElement{Height: true})
			} else if v, ok := scaled(value); ok {
				out = append(out, layout.ExactHeight(v))
			}
		case "size":
			if value == "full" {
				out = append(out, layout.FillMaxElement{Width: true, Height: true})
			} else if v, ok := scaled(value); ok {
				out = append(out, layout.ExactSize(v, v))
			}
		case "grow":
			w := float32(1)
			if value != "" {
				v, ok := scaledRaw(value)
				if !ok {
					continue
				}
				w = v
			}
			out = append(out, layout.WeightElement{Weight: w, Fill: true})
		case "self":
			if a, ok := selfAlignment(value); ok {
				out = append(out, layout.AlignElement{Alignment: a})
			}
		case "bg":
			if c, ok := styleColor(value); ok {
				bg, hasBG = c, true
			}
		case "rounded":
			rounded = true
			if v, ok := scaled(value); ok {
				radius = v
			} else if value == "" {
				radius = 4
			}
		case "z":
			if v, ok := scaledRaw(value); ok {
				out = append(out, layout.ZIndexElement{Z: int(v)})
			}
		}
	}

	if hasPad {
		out = append(out, pad)
	}
	if hasBG {
		out = append(out, render.BackgroundElement{Color: bg, CornerRadius: radius})
	} else if rounded {
		// A radius without a fill still clips hit regions.
		out = append(out, render.BackgroundElement{Color: render.Transparent, CornerRadius: radius})
	}
	return out
}

// Styled appends parsed style classes to explicit elements, classes first
// so explicit modifiers win the outside-in chain ordering.
func Styled(classes string, extra ...modifier.Element) []modifier.Element {
	return append(Style(classes), extra...)
}

// splitClass divides "pt-4" into ("pt", "4") and "grow" into ("grow", "").
// Bracketed values keep their content: "w-[250]" -> ("w", "[250]").
func splitClass(class string) (name, value string) {
	if i := strings.Index(class, "-["); i >= 0 {
		return class[:i], class[i+1:]
	}
	if i := strings.IndexByte(class, '-'); i >= 0 {
		return class[:i], class[i+1:]
	}
	return class, ""
}

// scaled resolves a spacing token: plain integers sit on the 4px scale,
// bracketed values are raw pixels.
func scaled(value string) (float32, bool) {
	if v, ok := bracketed(value); ok {
		return parsePixels(v)
	}
	v, err := strconv.ParseFloat(value, 32)
	if err != nil || v < 0 {
		return 0, false
	}
	return float32(v) * 4, true
}

// scaledRaw resolves a token without the 4px scale (weights, z indices).
func scaledRaw(value string) (float32, bool) {
	if v, ok := bracketed(value); ok {
		return parsePixels(v)
	}
	v, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func bracketed(value string) (string, bool) {
	if len(value) >= 2 && value[0] == '[' && value[len(value)-1] == ']' {
		return value[1 : len(value)-1], true
	}
	return "", false
}

func parsePixels(v string) (float32, bool) {
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

func selfAlignment(value string) (layout.Alignment, bool) {
	switch value {
	case "start":
		return layout.AlignTopStart, true
	case "center":
		return layout.AlignCenter, true
	case "end":
		return layout.AlignBottomEnd, true
	}
	return layout.Alignment{}, false
}

// styleColor resolves a named color or a bracketed #RRGGBB / #RRGGBBAA hex
// value.
func styleColor(value string) (render.Color, bool) {
	if v, ok := bracketed(value); ok {
		return hexColor(v)
	}
	switch value {
	case "transparent":
		return render.Transparent, true
	case "black":
		return render.Black, true
	case "white":
		return render.White, true
	case "gray":
		return 0x6B7280FF, true
	case "red":
		return 0xEF4444FF, true
	case "green":
		return 0x22C55EFF, true
	case "blue":
		return 0x3B82F6FF, true
	case "yellow":
		return 0xEAB308FF, true
	}
	return 0, false
}

func hexColor(v string) (render.Color, bool) {
	v = strings.TrimPrefix(v, "#")
	switch len(v) {
	case 6:
		n, err := strconv.ParseUint(v, 16, 32)
		if err != nil {
			return 0, false
		}
		return render.Color(n)<<8 | 0xFF, true
	case 8:
		n, err := strconv.ParseUint(v, 16, 64)
		if err != nil {
			return 0, false
		}
		return render.Color(n), true
	}
	return 0, false
}
