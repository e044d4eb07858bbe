package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Func is a single filter function.
type Func int

const (
	Brightness Func = iota
	Contrast
	Saturate
	Grayscale
)

func (f Func) String() string {
	switch f {
	case Brightness:
		return "brightness"
	case Contrast:
		return "contrast"
	case Saturate:
		return "saturate"
	case Grayscale:
		return "grayscale"
	default:
		return "unknown"
	}
}

func funcFromString(s string) (Func, bool) {
	switch s {
	case "brightness":
		return Brightness, true
	case "contrast":
		return Contrast, true
	case "saturate":
		return Saturate, true
	case "grayscale":
		return Grayscale, true
	default:
		return 0, false
	}
}

// Op is one filter function with its amount.
type Op struct {
	Func   Func
	Amount float64
}

// Filter is an ordered list of ops applied left to right.
// The empty filter is the identity.
type Filter []Op

// IsIdentity reports whether the filter leaves colours unchanged.
func (f Filter) IsIdentity() bool {
	return len(f) == 0
}

// String renders the filter in CSS filter syntax, or "none" for identity.
func (f Filter) String() string {
	if f.IsIdentity() {
		return "none"
	}
	parts := make([]string, 0, len(f))
	for _, op := range f {
		parts = append(parts, fmt.Sprintf("%s(%s)", op.Func, strconv.FormatFloat(op.Amount, 'g', -1, 64)))
	}
	return strings.Join(parts, " ")
}

// Parse reads a filter in CSS filter syntax, e.g. "contrast(1.3) saturate(1.4)".
// "none" and the empty string yield the identity filter.
func Parse(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil, nil
	}

	var f Filter
	for _, field := range strings.Fields(s) {
		open := strings.IndexByte(field, '(')
		if open <= 0 || !strings.HasSuffix(field, ")") {
			return nil, fmt.Errorf("malformed filter function %q", field)
		}
		name := field[:open]
		fn, ok := funcFromString(name)
		if !ok {
			return nil, fmt.Errorf("unknown filter function %q", name)
		}
		amount, err := strconv.ParseFloat(field[open+1:len(field)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("filter %s: invalid amount: %w", name, err)
		}
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, fmt.Errorf("filter %s: amount must be a non-negative number, got %v", name, amount)
		}
		f = append(f, Op{Func: fn, Amount: amount})
	}
	return f, nil
}

// Apply runs every op over c in order, clamping to gamut after each step.
func (f Filter) Apply(c colorful.Color) colorful.Color {
	for _, op := range f {
		c = op.apply(c).Clamped()
	}
	return c
}

// ApplyRGBA filters a premultiplied pixel. Alpha is preserved.
func (f Filter) ApplyRGBA(px color.RGBA) color.RGBA {
	if f.IsIdentity() || px.A == 0 {
		return px
	}
	c, ok := colorful.MakeColor(px)
	if !ok {
		return px
	}
	r, g, b := f.Apply(c).RGB255()
	a := uint16(px.A)
	return color.RGBA{
		R: uint8(uint16(r) * a / 0xff),
		G: uint8(uint16(g) * a / 0xff),
		B: uint8(uint16(b) * a / 0xff),
		A: px.A,
	}
}

func (op Op) apply(c colorful.Color) colorful.Color {
	a := op.Amount
	switch op.Func {
	case Brightness:
		return colorful.Color{R: c.R * a, G: c.G * a, B: c.B * a}
	case Contrast:
		return colorful.Color{
			R: (c.R-0.5)*a + 0.5,
			G: (c.G-0.5)*a + 0.5,
			B: (c.B-0.5)*a + 0.5,
		}
	case Saturate:
		return saturate(c, a)
	case Grayscale:
		return grayscale(c, math.Min(a, 1))
	default:
		return c
	}
}

// saturate uses the filter-effects saturate matrix.
func saturate(c colorful.Color, s float64) colorful.Color {
	return colorful.Color{
		R: (0.213+0.787*s)*c.R + (0.715-0.715*s)*c.G + (0.072-0.072*s)*c.B,
		G: (0.213-0.213*s)*c.R + (0.715+0.285*s)*c.G + (0.072-0.072*s)*c.B,
		B: (0.213-0.213*s)*c.R + (0.715-0.715*s)*c.G + (0.072+0.928*s)*c.B,
	}
}

func grayscale(c colorful.Color, a float64) colorful.Color {
	k := 1 - a
	return colorful.Color{
		R: (0.2126+0.7874*k)*c.R + (0.7152-0.7152*k)*c.G + (0.0722-0.0722*k)*c.B,
		G: (0.2126-0.2126*k)*c.R + (0.7152+0.2848*k)*c.G + (0.0722-0.0722*k)*c.B,
		B: (0.2126-0.2126*k)*c.R + (0.7152-0.7152*k)*c.G + (0.0722+0.9278*k)*c.B,
	}
}
