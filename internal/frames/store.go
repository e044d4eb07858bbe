package frames

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a frame index falls outside the sequence.
var ErrIndexOutOfRange = errors.New("frame index out of range")

// Frame is a positional offset for one pose of the animation cycle.
type Frame struct {
	OffsetX float64 `yaml:"x"`
	OffsetY float64 `yaml:"y"`
}

// Store owns the ordered frame sequence. It is not safe for concurrent use;
// playback.Session serializes access to it.
type Store struct {
	frames []Frame
}

// NewStore creates a store holding count zero-offset frames.
func NewStore(count int) *Store {
	s := &Store{}
	s.Reset(count)
	return s
}

// Reset discards the current sequence and replaces it with count zero-offset
// frames. A negative count is treated as zero.
func (s *Store) Reset(count int) {
	if count < 0 {
		count = 0
	}
	s.frames = make([]Frame, count)
}

// Len returns the number of frames in the sequence.
func (s *Store) Len() int {
	return len(s.frames)
}

// At returns the frame at index i. The second result is false when i is out
// of range.
func (s *Store) At(i int) (Frame, bool) {
	if i < 0 || i >= len(s.frames) {
		return Frame{}, false
	}
	return s.frames[i], true
}

// Set replaces the frame at index i.
func (s *Store) Set(i int, f Frame) error {
	if i < 0 || i >= len(s.frames) {
		return fmt.Errorf("set frame %d of %d: %w", i, len(s.frames), ErrIndexOutOfRange)
	}
	s.frames[i] = f
	return nil
}

// Nudge shifts the offsets of the frame at index i by dx, dy.
func (s *Store) Nudge(i int, dx, dy float64) error {
	if i < 0 || i >= len(s.frames) {
		return fmt.Errorf("nudge frame %d of %d: %w", i, len(s.frames), ErrIndexOutOfRange)
	}
	s.frames[i].OffsetX += dx
	s.frames[i].OffsetY += dy
	return nil
}

// Frames returns a copy of the sequence.
func (s *Store) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}
