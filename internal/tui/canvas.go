package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/JPM1118/flick/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const halfBlock = "▀"

// paintCanvas converts img to terminal rows, two pixels per cell: the upper
// pixel is the foreground of "▀" and the lower pixel its background. Runs of
// identical cells share one styled segment.
func paintCanvas(img *image.RGBA) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	bg := hexOf(color.RGBAModel.Convert(render.Background).(color.RGBA))

	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var run int
		var runFg, runBg string
		flush := func() {
			if run == 0 {
				return
			}
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(runFg)).
				Background(lipgloss.Color(runBg))
			out.WriteString(cell.Render(strings.Repeat(halfBlock, run)))
			run = 0
		}

		for x := b.Min.X; x < b.Max.X; x++ {
			fg := hexOf(img.RGBAAt(x, y))
			lower := bg
			if y+1 < b.Max.Y {
				lower = hexOf(img.RGBAAt(x, y+1))
			}
			if run > 0 && (fg != runFg || lower != runBg) {
				flush()
			}
			runFg, runBg = fg, lower
			run++
		}
		flush()
		if y+2 < b.Max.Y {
			out.WriteString("\n")
		}
	}
	return out.String()
}

// hexOf returns the #rrggbb form of a premultiplied pixel composited over
// black.
func hexOf(px color.RGBA) string {
	return colorful.Color{
		R: float64(px.R) / 255,
		G: float64(px.G) / 255,
		B: float64(px.B) / 255,
	}.Hex()
}
