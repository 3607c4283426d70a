package playback

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Span is a half-open interval [StartSec, EndSec) of virtual ride time.
type Span struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

// Contains reports whether t falls inside the span.
func (s Span) Contains(t float64) bool {
	return t >= s.StartSec && t < s.EndSec
}

// Profile describes the ride being played back: total duration and the
// idle spans the skip-idle toggle jumps over.
type Profile struct {
	DurationSec float64
	IdleSpans   []Span
}

// Driver is the animation-frame driver for a Clock. It owns wall-clock
// timing: once per frame it measures the real delta since the previous
// frame and feeds it to Clock.Tick, which applies the speed multiplier.
// The driver also handles what the clock deliberately does not — jumping
// over idle spans when skip-idle is on, and pausing at end of ride.
type Driver struct {
	clock    *Clock
	profile  Profile
	wall     clockwork.Clock
	interval time.Duration
	onFrame  func(Snapshot)
}

// NewDriver creates a frame driver ticking at the given interval.
// onFrame is invoked after every frame with the post-tick snapshot and
// may be nil.
func NewDriver(clock *Clock, profile Profile, interval time.Duration, onFrame func(Snapshot)) *Driver {
	return &Driver{
		clock:    clock,
		profile:  profile,
		wall:     clockwork.NewRealClock(),
		interval: interval,
		onFrame:  onFrame,
	}
}

// Run drives the clock until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	ticker := d.wall.NewTicker(d.interval)
	defer ticker.Stop()

	last := d.wall.Now()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("frame driver stopped")
			return
		case now := <-ticker.Chan():
			delta := now.Sub(last).Seconds()
			last = now
			if delta < 0 {
				delta = 0
			}
			d.frame(delta)
		}
	}
}

// frame advances the clock by one frame's worth of wall-clock time and
// applies the driver-side policies.
func (d *Driver) frame(deltaSeconds float64) {
	newTime := d.clock.Tick(deltaSeconds)

	snap := d.clock.Snapshot()
	if snap.IsPlaying && snap.SkipIdle {
		if end, ok := idleEnd(d.profile.IdleSpans, newTime); ok {
			d.clock.Seek(end)
			newTime = end
		}
	}

	// End of ride is a driver concern: the clock never clamps upward.
	if d.profile.DurationSec > 0 && newTime >= d.profile.DurationSec {
		d.clock.Pause()
		d.clock.Seek(d.profile.DurationSec)
	}

	if d.onFrame != nil {
		d.onFrame(d.clock.Snapshot())
	}
}

// idleEnd returns the end of the idle span covering t, if any.
func idleEnd(spans []Span, t float64) (float64, bool) {
	for _, s := range spans {
		if s.Contains(t) {
			return s.EndSec, true
		}
	}
	return 0, false
}
