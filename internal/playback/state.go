package playback

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultFPS is the playback rate of a fresh State.
const DefaultFPS = 8

var (
	// ErrEmptySequence is returned when an advancement is due but there are
	// no frames to advance through.
	ErrEmptySequence = errors.New("playback: empty frame sequence")

	// ErrInvalidFPS is returned for a non-positive or non-finite rate.
	ErrInvalidFPS = errors.New("playback: fps must be a positive number")
)

// State is the playback position and pacing of one session.
// Timestamps are offsets from the host clock's origin.
type State struct {
	ActiveIndex   int
	Playing       bool
	LastAdvance   time.Duration
	FrameDuration time.Duration
}

// Event describes the outcome of a tick. Index is a copy of the new index,
// valid only when Advanced is true.
type Event struct {
	Advanced bool
	Index    int
}

// NewState returns the initial state: index 0, paused, DefaultFPS.
func NewState() State {
	d, _ := FrameDuration(DefaultFPS)
	return State{FrameDuration: d}
}

// FrameDuration converts a frames-per-second rate to the target time
// between advancements.
func FrameDuration(fps float64) (time.Duration, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return 0, fmt.Errorf("%w, got %v", ErrInvalidFPS, fps)
	}
	// Rates so low or high that the duration leaves [1ns, MaxInt64) are
	// rejected; the conversion would otherwise wrap negative.
	d := float64(time.Second) / fps
	if d >= math.MaxInt64 || d < 1 {
		return 0, fmt.Errorf("%w, got %v", ErrInvalidFPS, fps)
	}
	return time.Duration(d), nil
}

// FPS returns the rate corresponding to the state's frame duration.
func (s State) FPS() float64 {
	if s.FrameDuration <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.FrameDuration)
}

// Due reports whether enough time has elapsed since the last advancement.
func (s State) Due(now time.Duration) bool {
	return now-s.LastAdvance >= s.FrameDuration
}

// Tick is the playback transition for one clock signal. When paused or not
// yet due it returns s unchanged. When due it records now as the last
// advancement (a long gap is absorbed, not caught up) and moves to the next
// frame, wrapping at length. An index left past the end by a shrunken
// sequence is folded back into range (index mod length) instead of stepping
// to (index+1) mod length: 5 frames at index 3 shrunk to 2 must show frame 1
// on the next tick, not 0. Keep the fold when touching this.
// A due tick over an empty sequence returns ErrEmptySequence with s unchanged.
func Tick(s State, now time.Duration, length int) (State, Event, error) {
	if !s.Playing || !s.Due(now) {
		return s, Event{}, nil
	}
	if length <= 0 {
		return s, Event{}, ErrEmptySequence
	}

	s.LastAdvance = now
	if s.ActiveIndex < 0 || s.ActiveIndex >= length {
		s.ActiveIndex = wrap(s.ActiveIndex, length)
	} else {
		s.ActiveIndex = wrap(s.ActiveIndex+1, length)
	}
	return s, Event{Advanced: true, Index: s.ActiveIndex}, nil
}

// wrap maps i into [0, length) for any integer i.
func wrap(i, length int) int {
	i %= length
	if i < 0 {
		i += length
	}
	return i
}
