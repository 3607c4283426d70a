package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Defaults(t *testing.T) {
	c := NewClock()

	snap := c.Snapshot()
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, 0.0, snap.CurrentTime)
	assert.Equal(t, 1.0, snap.PlaybackSpeed)
	assert.True(t, snap.CameraFollow)
	assert.False(t, snap.SkipIdle)
}

func TestClock_TickWhilePaused_NoMutation(t *testing.T) {
	c := NewClock()
	c.Seek(42)

	got := c.Tick(0.5)

	assert.Equal(t, 42.0, got, "paused tick should return current time unchanged")
	assert.Equal(t, 42.0, c.CurrentTime())
	assert.False(t, c.IsPlaying())
}

func TestClock_TickWhilePlaying_AppliesSpeedMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		speed float64
		delta float64
		want  float64
	}{
		{"realtime", 0, 1, 1.0 / 60, 1.0 / 60},
		{"double speed", 10, 2, 0.5, 11},
		{"half speed", 10, 0.5, 1, 10.5},
		{"max speed", 100, 64, 0.1, 106.4},
		{"zero delta", 5, 8, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock()
			c.Seek(tt.start)
			c.SetSpeed(tt.speed)
			c.Play()

			got := c.Tick(tt.delta)

			assert.InDelta(t, tt.want, got, 1e-9)
			assert.InDelta(t, tt.want, c.CurrentTime(), 1e-9)
		})
	}
}

func TestClock_TickAccumulatesAcrossFrames(t *testing.T) {
	c := NewClock()
	c.SetSpeed(4)
	c.Play()

	for i := 0; i < 60; i++ {
		c.Tick(1.0 / 60)
	}

	assert.InDelta(t, 4.0, c.CurrentTime(), 1e-9)
}

func TestClock_SeekClampsNegativeToZero(t *testing.T) {
	c := NewClock()

	c.Seek(-5)
	assert.Equal(t, 0.0, c.CurrentTime())

	c.Seek(42)
	assert.Equal(t, 42.0, c.CurrentTime())
}

func TestClock_SeekHasNoUpperBound(t *testing.T) {
	c := NewClock()

	c.Seek(1e9)

	assert.Equal(t, 1e9, c.CurrentTime(), "upper clamping is the caller's job")
}

func TestClock_SetSpeedStoresVerbatim(t *testing.T) {
	c := NewClock()

	// Not in the conventional set; the clock does not validate.
	c.SetSpeed(3)
	assert.Equal(t, 3.0, c.Speed())
}

func TestClock_PlayPauseIdempotent(t *testing.T) {
	c := NewClock()

	c.Play()
	c.Play()
	assert.True(t, c.IsPlaying())

	c.Pause()
	c.Pause()
	assert.False(t, c.IsPlaying())
}

func TestClock_ToggleTwiceReturnsToStart(t *testing.T) {
	c := NewClock()

	c.Toggle()
	assert.True(t, c.IsPlaying())

	c.Toggle()
	assert.False(t, c.IsPlaying())
}

func TestClock_DisplayToggles(t *testing.T) {
	c := NewClock()

	c.ToggleCameraFollow()
	assert.False(t, c.Snapshot().CameraFollow)
	c.SetCameraFollow(true)
	assert.True(t, c.Snapshot().CameraFollow)

	c.ToggleSkipIdle()
	assert.True(t, c.Snapshot().SkipIdle)
	c.SetSkipIdle(false)
	assert.False(t, c.Snapshot().SkipIdle)
}

func TestClock_TogglesDoNotAffectTimeMath(t *testing.T) {
	c := NewClock()
	c.Play()
	c.ToggleCameraFollow()
	c.ToggleSkipIdle()

	got := c.Tick(1)

	assert.Equal(t, 1.0, got)
}

func TestClock_ResetRestoresDefaultSnapshot(t *testing.T) {
	c := NewClock()
	c.Play()
	c.Seek(123.4)
	c.SetSpeed(32)
	c.ToggleCameraFollow()
	c.ToggleSkipIdle()

	c.Reset()

	snap := c.Snapshot()
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, 0.0, snap.CurrentTime)
	assert.Equal(t, 1.0, snap.PlaybackSpeed)
	assert.True(t, snap.CameraFollow)
	assert.False(t, snap.SkipIdle)
}
