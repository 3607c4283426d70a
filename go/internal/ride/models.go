package ride

// CreateRideRequest represents the data needed to register a new ride
type CreateRideRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	DurationSec float64 `json:"duration_sec" validate:"required"`
}

// CreatePointRequest is one track sample in an import batch
type CreatePointRequest struct {
	Seq        int     `json:"seq"`
	ElapsedSec float64 `json:"elapsed_sec"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	ElevationM float64 `json:"elevation_m"`
	SpeedKmh   float64 `json:"speed_kmh"`
}
