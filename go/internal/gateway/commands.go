package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/ridetape/server/go/internal/playback"
)

// Command is a playback control message received from a browser client.
type Command struct {
	Type CommandType `json:"type"`
	// Value carries the argument for seek and set_speed.
	Value *float64 `json:"value,omitempty"`
	// On carries the argument for the set_* toggles.
	On *bool `json:"on,omitempty"`
}

// CommandType represents the type of client command
type CommandType string

const (
	CommandPlay            CommandType = "play"
	CommandPause           CommandType = "pause"
	CommandToggle          CommandType = "toggle"
	CommandSeek            CommandType = "seek"
	CommandSetSpeed        CommandType = "set_speed"
	CommandToggleCamera    CommandType = "toggle_camera_follow"
	CommandSetCameraFollow CommandType = "set_camera_follow"
	CommandToggleSkipIdle  CommandType = "toggle_skip_idle"
	CommandSetSkipIdle     CommandType = "set_skip_idle"
	CommandReset           CommandType = "reset"
)

// parseCommand decodes a raw client message.
func parseCommand(message []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		return Command{}, fmt.Errorf("unmarshal command: %w", err)
	}
	return cmd, nil
}

// applyCommand routes a command to the playback clock. The clock's
// operations are total, so the only failures are malformed commands.
func applyCommand(clock *playback.Clock, cmd Command) error {
	switch cmd.Type {
	case CommandPlay:
		clock.Play()
	case CommandPause:
		clock.Pause()
	case CommandToggle:
		clock.Toggle()
	case CommandSeek:
		if cmd.Value == nil {
			return fmt.Errorf("seek requires a value")
		}
		clock.Seek(*cmd.Value)
	case CommandSetSpeed:
		if cmd.Value == nil {
			return fmt.Errorf("set_speed requires a value")
		}
		clock.SetSpeed(*cmd.Value)
	case CommandToggleCamera:
		clock.ToggleCameraFollow()
	case CommandSetCameraFollow:
		if cmd.On == nil {
			return fmt.Errorf("set_camera_follow requires on")
		}
		clock.SetCameraFollow(*cmd.On)
	case CommandToggleSkipIdle:
		clock.ToggleSkipIdle()
	case CommandSetSkipIdle:
		if cmd.On == nil {
			return fmt.Errorf("set_skip_idle requires on")
		}
		clock.SetSkipIdle(*cmd.On)
	case CommandReset:
		clock.Reset()
	default:
		return fmt.Errorf("unknown command type %q", cmd.Type)
	}
	return nil
}
