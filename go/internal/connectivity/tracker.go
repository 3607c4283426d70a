package connectivity

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// recoveryWindow is how long the "just recovered" flag stays visible
// after an offline period ends.
const recoveryWindow = 5 * time.Second

// State is the tracker's view for presentation layers, e.g. a
// connectivity banner.
type State struct {
	IsOnline     bool       `json:"is_online"`
	WasOffline   bool       `json:"was_offline"`
	LastOnlineAt *time.Time `json:"last_online_at,omitempty"`
}

// Tracker derives perceived network reachability from a Signal. It
// latches offline periods and, on recovery, raises a WasOffline flag
// that clears itself after recoveryWindow. Each recovery cancels any
// pending clear and schedules a fresh one, so the most recent recovery
// always gets a full window; a recovery epoch makes stale timers
// harmless even if they slip past the stop.
type Tracker struct {
	clock clockwork.Clock

	mu         sync.Mutex
	state      State
	sawOffline bool
	epoch      uint64
	timer      clockwork.Timer

	unsubscribe func()
	closeOnce   sync.Once
	done        chan struct{}
}

// New creates a tracker seeded from the signal's current reachability
// (assuming online when the signal is unreadable) and subscribes to its
// transition events for the tracker's lifetime. Close releases the
// subscription.
func New(sig Signal) *Tracker {
	return newTracker(sig, clockwork.NewRealClock())
}

func newTracker(sig Signal, clock clockwork.Clock) *Tracker {
	t := &Tracker{
		clock: clock,
		done:  make(chan struct{}),
	}

	online, ok := sig.Online()
	if !ok {
		online = true
	}
	t.state.IsOnline = online

	t.unsubscribe = sig.Subscribe(t.handleUp, t.handleDown)
	return t
}

// State returns a copy of the current tracker state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// handleDown records a lost connection and latches that an offline
// period occurred. No timer is involved on the way down.
func (t *Tracker) handleDown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.IsOnline = false
	t.sawOffline = true
	log.Warn().Msg("connectivity lost")
}

// handleUp records a recovered connection. If an offline period was
// latched, it raises WasOffline and schedules the window that clears it.
func (t *Tracker) handleUp() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	t.state.IsOnline = true
	t.state.LastOnlineAt = &now

	if !t.sawOffline {
		// Spurious "up" with no preceding offline period: no recovery
		// signal.
		return
	}
	t.sawOffline = false
	t.state.WasOffline = true

	// Replace any pending clear so this recovery gets a full window.
	t.epoch++
	epoch := t.epoch
	if t.timer != nil {
		stopAndDrainTimer(t.timer)
	}
	timer := t.clock.NewTimer(recoveryWindow)
	t.timer = timer

	go func() {
		select {
		case <-timer.Chan():
			t.clearRecovered(epoch)
		case <-t.done:
			stopAndDrainTimer(timer)
		}
	}()

	log.Info().Time("last_online_at", now).Msg("connectivity recovered")
}

// clearRecovered drops the WasOffline flag unless a newer recovery has
// superseded this timer.
func (t *Tracker) clearRecovered(epoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if epoch != t.epoch {
		return
	}
	t.state.WasOffline = false
}

// Close unsubscribes the transition events and cancels any pending
// recovery timer. Safe to call more than once and at any point,
// including mid-offline-period.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		if t.unsubscribe != nil {
			t.unsubscribe()
		}
		close(t.done)

		t.mu.Lock()
		defer t.mu.Unlock()
		t.epoch++
		if t.timer != nil {
			stopAndDrainTimer(t.timer)
			t.timer = nil
		}
	})
}

// stopAndDrainTimer safely stops a timer and drains its channel, per
// the time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
