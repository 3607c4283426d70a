package gateway

import (
	"testing"

	"github.com/ridetape/server/go/internal/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestApplyCommand_PlaybackControls(t *testing.T) {
	clock := playback.NewClock()

	require.NoError(t, applyCommand(clock, Command{Type: CommandPlay}))
	assert.True(t, clock.IsPlaying())

	require.NoError(t, applyCommand(clock, Command{Type: CommandPause}))
	assert.False(t, clock.IsPlaying())

	require.NoError(t, applyCommand(clock, Command{Type: CommandToggle}))
	assert.True(t, clock.IsPlaying())

	require.NoError(t, applyCommand(clock, Command{Type: CommandSeek, Value: floatPtr(120)}))
	assert.Equal(t, 120.0, clock.CurrentTime())

	require.NoError(t, applyCommand(clock, Command{Type: CommandSeek, Value: floatPtr(-1)}))
	assert.Equal(t, 0.0, clock.CurrentTime(), "negative seek clamps to zero")

	require.NoError(t, applyCommand(clock, Command{Type: CommandSetSpeed, Value: floatPtr(8)}))
	assert.Equal(t, 8.0, clock.Speed())

	require.NoError(t, applyCommand(clock, Command{Type: CommandSetCameraFollow, On: boolPtr(false)}))
	assert.False(t, clock.Snapshot().CameraFollow)

	require.NoError(t, applyCommand(clock, Command{Type: CommandSetSkipIdle, On: boolPtr(true)}))
	assert.True(t, clock.Snapshot().SkipIdle)

	require.NoError(t, applyCommand(clock, Command{Type: CommandReset}))
	assert.Equal(t, playback.Snapshot{PlaybackSpeed: 1, CameraFollow: true}, clock.Snapshot())
}

func TestApplyCommand_MissingArguments(t *testing.T) {
	clock := playback.NewClock()

	assert.ErrorContains(t, applyCommand(clock, Command{Type: CommandSeek}), "requires a value")
	assert.ErrorContains(t, applyCommand(clock, Command{Type: CommandSetSpeed}), "requires a value")
	assert.ErrorContains(t, applyCommand(clock, Command{Type: CommandSetCameraFollow}), "requires on")
	assert.ErrorContains(t, applyCommand(clock, Command{Type: CommandSetSkipIdle}), "requires on")
}

func TestApplyCommand_UnknownType(t *testing.T) {
	err := applyCommand(playback.NewClock(), Command{Type: "warp"})
	assert.ErrorContains(t, err, "unknown command type")
}

func TestParseCommand(t *testing.T) {
	cmd, err := parseCommand([]byte(`{"type":"seek","value":42.5}`))
	require.NoError(t, err)
	assert.Equal(t, CommandSeek, cmd.Type)
	require.NotNil(t, cmd.Value)
	assert.Equal(t, 42.5, *cmd.Value)

	_, err = parseCommand([]byte(`not json`))
	assert.Error(t, err)
}
