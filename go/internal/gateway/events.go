package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ridetape/server/go/internal/connectivity"
	"github.com/ridetape/server/go/internal/playback"
)

// PlayerEvent is the base structure for every message the gateway sends
// to browser clients.
type PlayerEvent struct {
	Type      EventType       `json:"type"`
	RideID    string          `json:"ride_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of gateway event
type EventType string

const (
	// EventTypeFrame carries the post-tick playback snapshot plus the
	// current connectivity state, once per frame.
	EventTypeFrame EventType = "Frame"
	// EventTypeResume carries a saved playback position on connect.
	EventTypeResume EventType = "Resume"
)

// FramePayload is the per-frame state pushed to every viewer of a ride.
type FramePayload struct {
	Playback     playback.Snapshot  `json:"playback"`
	DurationSec  float64            `json:"duration_sec"`
	Connectivity connectivity.State `json:"connectivity"`
}

// ResumePayload tells a connecting client where its last session left
// off.
type ResumePayload struct {
	PositionSec  float64 `json:"position_sec"`
	Speed        float64 `json:"speed"`
	CameraFollow bool    `json:"camera_follow"`
	SkipIdle     bool    `json:"skip_idle"`
}

// newEvent wraps a payload into a PlayerEvent.
func newEvent(eventType EventType, rideID string, payload any) (*PlayerEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &PlayerEvent{
		Type:      eventType,
		RideID:    rideID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}
