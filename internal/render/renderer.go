package render

import (
	"errors"
	"image"
	"math"
	"sync"

	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/style"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrMissingSurface is returned when rendering before a surface was acquired.
var ErrMissingSurface = errors.New("render: drawing surface not acquired")

// PromptText is shown while no image is loaded.
const PromptText = "Upload a character image to start"

var (
	Background = mustHex("#0b0c10")
	PromptInk  = mustHex("#c5c6c7")
)

const (
	// Fractions of the surface the image may occupy.
	maxWidthShare  = 0.5
	maxHeightShare = 0.7
)

// Renderer draws the active frame of a session onto a Surface.
type Renderer struct {
	mu      sync.Mutex
	surface *Surface
	styles  *style.Registry
	image   image.Image
}

var _ playback.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer for surface. A nil registry resolves
// built-in styles only.
func NewRenderer(surface *Surface, styles *style.Registry) *Renderer {
	return &Renderer{surface: surface, styles: styles}
}

// SetImage sets the image to animate. Nil switches to the prompt.
func (r *Renderer) SetImage(img image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.image = img
}

// HasImage reports whether an image is loaded.
func (r *Renderer) HasImage() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.image != nil
}

// Surface returns the surface being drawn to.
func (r *Renderer) Surface() *Surface {
	return r.surface
}

// Render paints the background and either the prompt or the image shifted
// by the snapshot's frame offset, with the named style applied to the image.
func (r *Renderer) Render(styleName string, snap playback.Snapshot) error {
	if r == nil || r.surface == nil {
		return ErrMissingSurface
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.surface
	w, h := s.Size()

	s.Clear()
	s.FillRect(s.Image().Bounds(), Background)

	if r.image == nil {
		r.drawPrompt(w, h)
		return nil
	}

	s.SetFilter(r.styles.Lookup(styleName))
	defer s.SetFilter(nil)

	s.DrawImage(r.image, Placement(r.image.Bounds(), w, h, snap.Frame.OffsetX, snap.Frame.OffsetY))
	return nil
}

func (r *Renderer) drawPrompt(w, h int) {
	s := r.surface
	lines := s.WrapText(PromptText, w)
	lh := s.LineHeight()
	// Centre the block of lines on the surface's middle baseline.
	y := h/2 - (len(lines)-1)*lh/2
	for _, line := range lines {
		s.DrawText(line, w/2, y, PromptInk)
		y += lh
	}
}

// Placement returns where an image with bounds src lands on a w x h surface:
// scaled to fit half the width and 70% of the height, centred, then shifted
// by the frame offset.
func Placement(src image.Rectangle, w, h int, offsetX, offsetY float64) image.Rectangle {
	imgW, imgH := float64(src.Dx()), float64(src.Dy())
	if imgW <= 0 || imgH <= 0 {
		return image.Rectangle{}
	}
	scale := math.Min(float64(w)*maxWidthShare/imgW, float64(h)*maxHeightShare/imgH)

	drawW := imgW * scale
	drawH := imgH * scale
	centerX := float64(w)/2 + offsetX
	centerY := float64(h)/2 + offsetY

	x0 := int(math.Round(centerX - drawW/2))
	y0 := int(math.Round(centerY - drawH/2))
	return image.Rect(x0, y0, x0+int(math.Round(drawW)), y0+int(math.Round(drawH)))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
