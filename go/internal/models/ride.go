package models

import (
	"time"

	"github.com/google/uuid"
)

// Ride represents a recorded ride/track available for playback
type Ride struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	DurationSec float64   `json:"duration_sec"`
	PointCount  int       `json:"point_count"`
	ViewCount   int       `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrackPoint is one recorded sample along a ride
type TrackPoint struct {
	RideID     uuid.UUID `json:"ride_id"`
	Seq        int       `json:"seq"`
	ElapsedSec float64   `json:"elapsed_sec"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	ElevationM float64   `json:"elevation_m"`
	SpeedKmh   float64   `json:"speed_kmh"`
}

// IdleSpan is an interval of ride time where the rider was effectively
// stationary. The skip-idle playback toggle jumps over these.
type IdleSpan struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}
