package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaybackSession is a viewer's saved playback position for a ride, so
// a reload resumes where it left off.
type PlaybackSession struct {
	ID           uuid.UUID `json:"id"`
	RideID       uuid.UUID `json:"ride_id"`
	ClientID     string    `json:"client_id"`
	PositionSec  float64   `json:"position_sec"`
	Speed        float64   `json:"speed"`
	CameraFollow bool      `json:"camera_follow"`
	SkipIdle     bool      `json:"skip_idle"`
	UpdatedAt    time.Time `json:"updated_at"`
}
