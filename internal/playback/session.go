package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JPM1118/flick/internal/frames"
	"github.com/google/uuid"
)

// Renderer draws one snapshot of a session. It is called synchronously from
// Session.Tick after the index has advanced and observers were notified.
type Renderer interface {
	Render(style string, snap Snapshot) error
}

// Snapshot is an immutable view of a session taken at one instant.
type Snapshot struct {
	Index   int
	Frame   frames.Frame // zero frame when Index is out of range
	Frames  []frames.Frame
	Playing bool
	FPS     float64
	Style   string
}

// Session owns one frame sequence and its playback state. All methods are
// safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	store    *frames.Store
	state    State
	style    string
	renderer Renderer
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithRenderer sets the renderer invoked after each advancement.
func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		s.renderer = r
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithStyle sets the initial style name.
func WithStyle(name string) Option {
	return func(s *Session) {
		s.style = name
	}
}

// NewSession creates a paused session with count zero-offset frames at
// DefaultFPS.
func NewSession(count int, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		store:  frames.NewStore(count),
		state:  NewState(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.ID)
	return s
}

// Tick advances the session for the clock signal at now. When an
// advancement happens, onFrameChange (if non-nil) receives the new index and
// then the renderer draws the post-advancement state. A due tick over an
// empty sequence is skipped without error.
func (s *Session) Tick(now time.Duration, onFrameChange func(index int)) (Event, error) {
	s.mu.Lock()
	next, ev, err := Tick(s.state, now, s.store.Len())
	s.state = next
	s.mu.Unlock()

	if errors.Is(err, ErrEmptySequence) {
		s.logger.Debug("tick skipped", "reason", err, "at", now)
		return Event{}, nil
	}
	if !ev.Advanced {
		return ev, nil
	}

	if onFrameChange != nil {
		onFrameChange(ev.Index)
	}
	if err := s.render(); err != nil {
		return ev, err
	}
	return ev, nil
}

// Render draws the current state without advancing.
func (s *Session) Render() error {
	return s.render()
}

func (s *Session) render() error {
	if s.renderer == nil {
		return nil
	}
	snap := s.Snapshot()
	if err := s.renderer.Render(snap.Style, snap); err != nil {
		return fmt.Errorf("render frame %d: %w", snap.Index, err)
	}
	return nil
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, _ := s.store.At(s.state.ActiveIndex)
	return Snapshot{
		Index:   s.state.ActiveIndex,
		Frame:   f,
		Frames:  s.store.Frames(),
		Playing: s.state.Playing,
		FPS:     s.state.FPS(),
		Style:   s.style,
	}
}

// Play resumes advancement. The caller's clock must start ticking again.
func (s *Session) Play() {
	s.mu.Lock()
	s.state.Playing = true
	s.mu.Unlock()
	s.logger.Debug("playback resumed")
}

// Pause stops advancement from the next tick on.
func (s *Session) Pause() {
	s.mu.Lock()
	s.state.Playing = false
	s.mu.Unlock()
	s.logger.Debug("playback paused")
}

// Toggle flips between playing and paused and returns the new value.
func (s *Session) Toggle() bool {
	s.mu.Lock()
	s.state.Playing = !s.state.Playing
	playing := s.state.Playing
	s.mu.Unlock()
	s.logger.Debug("playback toggled", "playing", playing)
	return playing
}

// Playing reports whether the session advances on tick.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Playing
}

// SetFPS changes the playback rate.
func (s *Session) SetFPS(fps float64) error {
	d, err := FrameDuration(fps)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state.FrameDuration = d
	s.mu.Unlock()
	s.logger.Info("fps changed", "fps", fps)
	return nil
}

// FPS returns the playback rate.
func (s *Session) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FPS()
}

// SetStyle changes the style name passed to the renderer.
func (s *Session) SetStyle(name string) {
	s.mu.Lock()
	s.style = name
	s.mu.Unlock()
	s.logger.Info("style changed", "style", name)
}

// Style returns the active style name.
func (s *Session) Style() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// State returns a copy of the playback state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ResetFrames replaces the sequence with count zero-offset frames. The
// active index and play flag are left alone; the next advancement wraps
// using the new length.
func (s *Session) ResetFrames(count int) {
	s.mu.Lock()
	s.store.Reset(count)
	s.mu.Unlock()
	s.logger.Info("frames reset", "count", count)
}

// Len returns the number of frames.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// SetFrame replaces the frame at index i.
func (s *Session) SetFrame(i int, f frames.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Set(i, f)
}

// NudgeFrame shifts the offsets of the active frame.
func (s *Session) NudgeFrame(dx, dy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Nudge(s.state.ActiveIndex, dx, dy)
}

// Step moves the active index by delta frames, wrapping in both directions,
// without touching the pacing clock.
func (s *Session) Step(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.store.Len()
	if n == 0 {
		return 0, ErrEmptySequence
	}
	s.state.ActiveIndex = wrap(s.state.ActiveIndex+delta, n)
	return s.state.ActiveIndex, nil
}
