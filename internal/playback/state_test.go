package playback

import (
	"errors"
	"math"
	"testing"
	"time"
)

const ms = time.Millisecond

func playing() State {
	s := NewState()
	s.Playing = true
	return s
}

func TestNewState_Defaults(t *testing.T) {
	s := NewState()
	if s.ActiveIndex != 0 {
		t.Errorf("ActiveIndex = %d, want 0", s.ActiveIndex)
	}
	if s.Playing {
		t.Error("new state should be paused")
	}
	if s.FrameDuration != 125*ms {
		t.Errorf("FrameDuration = %s, want 125ms", s.FrameDuration)
	}
	if s.FPS() != 8 {
		t.Errorf("FPS() = %v, want 8", s.FPS())
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		fps     float64
		want    time.Duration
		wantErr bool
	}{
		{8, 125 * ms, false},
		{1, time.Second, false},
		{40, 25 * ms, false},
		{0, 0, true},
		{-5, 0, true},
		{1e-10, 0, true},
		{1e-300, 0, true},
		{1e10, 0, true},
		{math.NaN(), 0, true},
	}
	for _, tt := range tests {
		got, err := FrameDuration(tt.fps)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFPS) {
				t.Errorf("FrameDuration(%v) err = %v, want ErrInvalidFPS", tt.fps, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FrameDuration(%v) unexpected error: %v", tt.fps, err)
		}
		if got != tt.want {
			t.Errorf("FrameDuration(%v) = %s, want %s", tt.fps, got, tt.want)
		}
	}
}

func TestTick_SlowestRateStillPaced(t *testing.T) {
	d, err := FrameDuration(1e-9)
	if err != nil {
		t.Fatalf("FrameDuration(1e-9) unexpected error: %v", err)
	}
	if d <= 0 {
		t.Fatalf("FrameDuration(1e-9) = %s, want positive", d)
	}

	s := playing()
	s.FrameDuration = d
	advances := 0
	for now := 16 * ms; now <= 160*ms; now += 16 * ms {
		var ev Event
		s, ev, _ = Tick(s, now, 4)
		if ev.Advanced {
			advances++
		}
	}
	if advances != 0 {
		t.Errorf("advances in 160ms = %d, want 0", advances)
	}
}

func TestTick_ExampleScenario(t *testing.T) {
	s := playing()

	s, ev, err := Tick(s, 100*ms, 4)
	if err != nil || ev.Advanced {
		t.Fatalf("tick(100): ev=%+v err=%v, want no advancement", ev, err)
	}
	if s.ActiveIndex != 0 || s.LastAdvance != 0 {
		t.Fatalf("tick(100) changed state: %+v", s)
	}

	s, ev, err = Tick(s, 130*ms, 4)
	if err != nil || !ev.Advanced || ev.Index != 1 {
		t.Fatalf("tick(130): ev=%+v err=%v, want advance to 1", ev, err)
	}
	if s.LastAdvance != 130*ms {
		t.Errorf("LastAdvance = %s, want 130ms", s.LastAdvance)
	}

	s, ev, _ = Tick(s, 500*ms, 4)
	if !ev.Advanced || s.ActiveIndex != 2 {
		t.Errorf("tick(500): index = %d, want 2 (one advancement, no catch-up)", s.ActiveIndex)
	}
	if s.LastAdvance != 500*ms {
		t.Errorf("LastAdvance = %s, want 500ms", s.LastAdvance)
	}
}

func TestTick_IndexStaysInBounds(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		s := playing()
		for i := 1; i <= 50; i++ {
			s, _, _ = Tick(s, time.Duration(i)*200*ms, n)
			if s.ActiveIndex < 0 || s.ActiveIndex >= n {
				t.Fatalf("len=%d tick %d: index %d out of bounds", n, i, s.ActiveIndex)
			}
		}
	}
}

func TestTick_RatePacing(t *testing.T) {
	s := playing()
	advances := 0
	// Ticks every 50ms: 125ms duration is reached every third tick.
	for i := 1; i <= 9; i++ {
		var ev Event
		s, ev, _ = Tick(s, time.Duration(i)*50*ms, 10)
		if ev.Advanced {
			advances++
		}
	}
	if advances != 3 {
		t.Errorf("advances = %d, want 3", advances)
	}
}

func TestTick_ExactlyDueAdvances(t *testing.T) {
	s := playing()
	_, ev, _ := Tick(s, 125*ms, 3)
	if !ev.Advanced {
		t.Error("elapsed == frame duration should advance")
	}
}

func TestTick_Wraparound(t *testing.T) {
	s := playing()
	s.ActiveIndex = 3
	s, ev, _ := Tick(s, time.Second, 4)
	if ev.Index != 0 || s.ActiveIndex != 0 {
		t.Errorf("advancing from N-1 gave %d, want 0", s.ActiveIndex)
	}
}

func TestTick_PausedIsNoop(t *testing.T) {
	s := NewState()
	s.ActiveIndex = 2
	for i := 1; i <= 20; i++ {
		var ev Event
		var err error
		s, ev, err = Tick(s, time.Duration(i)*time.Second, 5)
		if ev.Advanced || err != nil {
			t.Fatalf("paused tick advanced: ev=%+v err=%v", ev, err)
		}
	}
	if s.ActiveIndex != 2 || s.LastAdvance != 0 {
		t.Errorf("paused state changed: %+v", s)
	}
}

func TestTick_EmptySequence(t *testing.T) {
	s := playing()
	next, ev, err := Tick(s, time.Second, 0)
	if !errors.Is(err, ErrEmptySequence) {
		t.Errorf("err = %v, want ErrEmptySequence", err)
	}
	if ev.Advanced {
		t.Error("empty sequence should not advance")
	}
	if next != s {
		t.Errorf("state changed on empty sequence: %+v", next)
	}
}

func TestTick_NotDueOverEmptySequenceIsQuiet(t *testing.T) {
	s := playing()
	_, _, err := Tick(s, 10*ms, 0)
	if err != nil {
		t.Errorf("not-due tick should not report, got %v", err)
	}
}

func TestTick_ShrinkWrapsWithNewLength(t *testing.T) {
	s := playing()
	s.ActiveIndex = 3
	s, _, _ = Tick(s, time.Second, 2)
	if s.ActiveIndex != 1 {
		t.Errorf("index = %d, want 1 (3 folded into a length-2 sequence)", s.ActiveIndex)
	}

	s, _, _ = Tick(s, 2*time.Second, 2)
	if s.ActiveIndex != 0 {
		t.Errorf("index = %d, want 0 after the following advancement", s.ActiveIndex)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 3, 0},
		{3, 3, 0},
		{4, 3, 1},
		{-1, 3, 2},
		{-4, 3, 2},
	}
	for _, tt := range tests {
		if got := wrap(tt.i, tt.n); got != tt.want {
			t.Errorf("wrap(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
