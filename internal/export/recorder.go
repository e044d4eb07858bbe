package export

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/render"
)

// Frame is one rendered picture of the animation.
type Frame struct {
	Seq   int // capture order
	Index int // active frame index when drawn
	Image *image.RGBA
}

// Recorder implements playback.Renderer. It draws through a render.Renderer
// and keeps a copy of the surface after every draw.
type Recorder struct {
	mu       sync.Mutex
	renderer *render.Renderer
	frames   []Frame
	count    int
	keep     bool

	// OnCapture, if set, receives each frame as it is captured. An error
	// is returned from Render.
	OnCapture func(Frame) error
}

var _ playback.Renderer = (*Recorder)(nil)

// NewRecorder wraps renderer. When keep is false captured frames are only
// passed to OnCapture and not retained.
func NewRecorder(renderer *render.Renderer, keep bool) *Recorder {
	return &Recorder{renderer: renderer, keep: keep}
}

func (r *Recorder) Render(style string, snap playback.Snapshot) error {
	if err := r.renderer.Render(style, snap); err != nil {
		return err
	}

	src := r.renderer.Surface().Image()
	img := image.NewRGBA(src.Bounds())
	copy(img.Pix, src.Pix)

	r.mu.Lock()
	f := Frame{Seq: r.count, Index: snap.Index, Image: img}
	r.count++
	if r.keep {
		r.frames = append(r.frames, f)
	}
	onCapture := r.OnCapture
	r.mu.Unlock()

	if onCapture != nil {
		return onCapture(f)
	}
	return nil
}

// Frames returns the retained frames in capture order.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Len returns the number of captures so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Synthetic drives session with a simulated clock: it draws the current
// frame, then advances exactly once per frame duration until count frames
// have been drawn. The session is left playing.
func Synthetic(ctx context.Context, session *playback.Session, count int) error {
	if count <= 0 {
		return nil
	}
	if session.Len() == 0 {
		return playback.ErrEmptySequence
	}
	if err := session.Render(); err != nil {
		return err
	}

	session.Play()
	step := session.State().FrameDuration
	now := session.State().LastAdvance
	for drawn := 1; drawn < count; drawn++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		now += step
		ev, err := session.Tick(now, nil)
		if err != nil {
			return fmt.Errorf("frame %d: %w", drawn, err)
		}
		if !ev.Advanced {
			return fmt.Errorf("frame %d: tick at %s did not advance", drawn, now)
		}
	}
	return nil
}
