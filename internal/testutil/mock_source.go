package testutil

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/source"
)

// MockLoader implements source.Loader for testing.
type MockLoader struct {
	mu        sync.Mutex
	Image     image.Image
	Err       error
	LoadCalls int
	LastPath  string
}

var _ source.Loader = (*MockLoader)(nil)

func (m *MockLoader) Load(_ context.Context, path string) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	m.LastPath = path
	return m.Image, m.Err
}

// GetLoadCalls returns the number of Load calls in a thread-safe manner.
func (m *MockLoader) GetLoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadCalls
}

// SolidImage returns a w x h image filled with c.
func SolidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// RecordingRenderer implements playback.Renderer and keeps every snapshot
// it was asked to draw.
type RecordingRenderer struct {
	mu        sync.Mutex
	Snapshots []playback.Snapshot
	Styles    []string
	Err       error
}

var _ playback.Renderer = (*RecordingRenderer)(nil)

func (r *RecordingRenderer) Render(style string, snap playback.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Snapshots = append(r.Snapshots, snap)
	r.Styles = append(r.Styles, style)
	return r.Err
}

// Calls returns the number of Render calls in a thread-safe manner.
func (r *RecordingRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Snapshots)
}

// Last returns the most recent snapshot.
func (r *RecordingRenderer) Last() (playback.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Snapshots) == 0 {
		return playback.Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}
