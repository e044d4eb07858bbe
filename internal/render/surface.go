package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/JPM1118/flick/internal/style"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Surface is an in-memory RGBA drawing surface with a current filter.
type Surface struct {
	img    *image.RGBA
	filter style.Filter
	face   font.Face
}

// NewSurface allocates a w x h transparent surface.
func NewSurface(w, h int) *Surface {
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		face: basicfont.Face7x13,
	}
}

// Image exposes the backing image. Callers must not retain it across draws.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Size returns the surface dimensions.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// FillRect paints r with c, replacing what was there.
func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// SetFilter sets the filter applied by subsequent DrawImage calls.
func (s *Surface) SetFilter(f style.Filter) {
	s.filter = f
}

// Filter returns the current filter.
func (s *Surface) Filter() style.Filter {
	return s.filter
}

// DrawImage scales src into dst and composites it over the surface with the
// current filter applied. dst may extend past the surface edges.
func (s *Surface) DrawImage(src image.Image, dst image.Rectangle) {
	if src == nil || dst.Empty() {
		return
	}
	visible := dst.Intersect(s.img.Bounds())
	if visible.Empty() {
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, dst.Dx(), dst.Dy()))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	if !s.filter.IsIdentity() {
		// Only the pixels that land on the surface need filtering.
		vis := visible.Sub(dst.Min)
		for y := vis.Min.Y; y < vis.Max.Y; y++ {
			for x := vis.Min.X; x < vis.Max.X; x++ {
				scaled.SetRGBA(x, y, s.filter.ApplyRGBA(scaled.RGBAAt(x, y)))
			}
		}
	}

	draw.Draw(s.img, dst, scaled, image.Point{}, draw.Over)
}

// LineHeight is the vertical advance of one text line.
func (s *Surface) LineHeight() int {
	return s.face.Metrics().Height.Ceil()
}

// MeasureText returns the advance width of text in pixels.
func (s *Surface) MeasureText(text string) int {
	return font.MeasureString(s.face, text).Ceil()
}

// DrawText draws text horizontally centred on cx with its baseline at y.
func (s *Surface) DrawText(text string, cx, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{X: fixed.I(cx) - width/2, Y: fixed.I(y)}
	d.DrawString(text)
}

// WrapText splits text into lines no wider than maxWidth pixels. A single
// word wider than maxWidth gets its own line.
func (s *Surface) WrapText(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if s.MeasureText(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
