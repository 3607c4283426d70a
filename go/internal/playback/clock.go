package playback

import (
	"sync"
)

// Speeds is the conventional set of playback rates the UI offers.
// The clock itself accepts any multiplier; staying inside this set
// is up to the caller.
var Speeds = []float64{0.5, 1, 2, 4, 8, 16, 32, 64}

// Snapshot is an immutable view of the clock state for presentation layers.
type Snapshot struct {
	IsPlaying     bool    `json:"is_playing"`
	CurrentTime   float64 `json:"current_time"`
	PlaybackSpeed float64 `json:"playback_speed"`
	CameraFollow  bool    `json:"camera_follow"`
	SkipIdle      bool    `json:"skip_idle"`
}

// defaultSnapshot is frozen at package load; Reset restores exactly this.
var defaultSnapshot = Snapshot{
	IsPlaying:     false,
	CurrentTime:   0,
	PlaybackSpeed: 1,
	CameraFollow:  true,
	SkipIdle:      false,
}

// Clock models elapsed ride time advancing at a selectable rate,
// independent of wall-clock frame timing. It owns virtual time,
// play/pause state, the speed multiplier, and two display toggles.
// An external frame driver feeds it wall-clock deltas via Tick; the
// clock never blocks and never returns an error.
type Clock struct {
	mu    sync.Mutex
	state Snapshot
}

// NewClock creates a clock in the default state: paused at time zero,
// speed 1x, camera follow on, skip idle off.
func NewClock() *Clock {
	return &Clock{state: defaultSnapshot}
}

// Play starts advancing virtual time on tick. Idempotent.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsPlaying = true
}

// Pause stops advancing virtual time. Idempotent.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsPlaying = false
}

// Toggle flips the play/pause state.
func (c *Clock) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsPlaying = !c.state.IsPlaying
}

// Seek sets the current virtual time. Negative input clamps to zero;
// there is no upper bound — clamping to ride duration is the caller's
// responsibility.
func (c *Clock) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentTime = t
}

// SetSpeed stores the playback speed multiplier verbatim. Values are
// expected to come from Speeds but are not validated.
func (c *Clock) SetSpeed(s float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PlaybackSpeed = s
}

// ToggleCameraFollow flips the camera-follow display toggle.
func (c *Clock) ToggleCameraFollow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CameraFollow = !c.state.CameraFollow
}

// SetCameraFollow sets the camera-follow display toggle.
func (c *Clock) SetCameraFollow(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CameraFollow = on
}

// ToggleSkipIdle flips the skip-idle display toggle.
func (c *Clock) ToggleSkipIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SkipIdle = !c.state.SkipIdle
}

// SetSkipIdle sets the skip-idle display toggle.
func (c *Clock) SetSkipIdle(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SkipIdle = on
}

// Tick advances virtual time by deltaSeconds*speed and returns the new
// time. When paused it returns the current time unchanged. deltaSeconds
// is the wall-clock seconds since the previous frame; the driver owns
// it and is expected to pass non-negative values. Tick applies no upper
// bound — end-of-ride handling (pause + seek) lives with the driver.
func (c *Clock) Tick(deltaSeconds float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsPlaying {
		return c.state.CurrentTime
	}
	c.state.CurrentTime += deltaSeconds * c.state.PlaybackSpeed
	return c.state.CurrentTime
}

// Reset restores the exact default snapshot, discarding all other state.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = defaultSnapshot
}

// Snapshot returns a copy of the current state.
func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsPlaying reports whether virtual time advances on tick.
func (c *Clock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsPlaying
}

// CurrentTime returns the elapsed virtual seconds since ride start.
func (c *Clock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentTime
}

// Speed returns the current playback speed multiplier.
func (c *Clock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.PlaybackSpeed
}
