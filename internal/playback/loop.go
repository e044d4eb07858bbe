package playback

import (
	"context"
	"time"
)

// DefaultRefreshInterval approximates a 60Hz display refresh.
const DefaultRefreshInterval = 16 * time.Millisecond

// LoopConfig holds host loop configuration.
type LoopConfig struct {
	RefreshInterval time.Duration
	OnFrameChange   func(index int)
	// OnError receives render failures. Ticking continues afterwards.
	OnError func(err error)
}

// Loop is the host clock for a Session: it calls Session.Tick once per
// refresh interval while the session is playing. While paused it issues no
// ticks until Resume is called.
type Loop struct {
	session *Session
	cfg     LoopConfig
	wakeCh  chan struct{}
}

// NewLoop creates a loop for session. Call Run to start ticking.
func NewLoop(session *Session, cfg LoopConfig) *Loop {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	return &Loop{
		session: session,
		cfg:     cfg,
		wakeCh:  make(chan struct{}, 1),
	}
}

// Resume starts playback and restarts the tick chain if it went idle.
func (l *Loop) Resume() {
	l.session.Play()
	select {
	case l.wakeCh <- struct{}{}:
	default:
		// Already woken
	}
}

// Pause stops playback; the chain goes idle at its next tick.
func (l *Loop) Pause() {
	l.session.Pause()
}

// Run ticks the session until ctx is cancelled. Timestamps passed to
// Session.Tick are measured from the moment Run starts.
func (l *Loop) Run(ctx context.Context) error {
	origin := time.Now()

	ticker := time.NewTicker(l.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		if !l.session.Playing() {
			ticker.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.wakeCh:
				ticker.Reset(l.cfg.RefreshInterval)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wakeCh:
			// Resume while already running, nothing to restart
		case t := <-ticker.C:
			_, err := l.session.Tick(t.Sub(origin), l.cfg.OnFrameChange)
			if err != nil && l.cfg.OnError != nil {
				l.cfg.OnError(err)
			}
		}
	}
}
