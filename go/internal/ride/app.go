package ride

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/models"
	"github.com/rs/zerolog/log"
)

// RideRepository defines what the app layer needs from the repository
type RideRepository interface {
	CreateRide(ctx context.Context, req CreateRideRequest) (*models.Ride, error)
	GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	ListRides(ctx context.Context) ([]models.Ride, error)
	CreateTrackPoints(ctx context.Context, rideID uuid.UUID, points []CreatePointRequest) error
	GetTrackPoints(ctx context.Context, rideID uuid.UUID) ([]models.TrackPoint, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	DeleteRide(ctx context.Context, id uuid.UUID) error
}

// Profile is what the playback layer needs to know about a ride: how
// long it is and which stretches the skip-idle toggle jumps over.
type Profile struct {
	Ride      *models.Ride      `json:"ride"`
	IdleSpans []models.IdleSpan `json:"idle_spans"`
}

// App handles ride business logic
type App struct {
	repo RideRepository
}

// NewApp creates a new ride App
func NewApp(repo RideRepository) *App {
	return &App{repo: repo}
}

// CreateRide registers a new ride with validation
func (a *App) CreateRide(ctx context.Context, req CreateRideRequest) (*models.Ride, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("validation failed: name is required")
	}
	if req.DurationSec <= 0 {
		return nil, fmt.Errorf("validation failed: duration must be positive")
	}

	ride, err := a.repo.CreateRide(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	log.Info().
		Str("ride_id", ride.ID.String()).
		Str("name", ride.Name).
		Float64("duration_sec", ride.DurationSec).
		Msg("created ride")
	return ride, nil
}

// ImportTrack attaches a batch of track samples to a ride. Samples must
// be monotonically increasing in elapsed time; they are sorted by
// sequence before validation.
func (a *App) ImportTrack(ctx context.Context, rideID uuid.UUID, points []CreatePointRequest) error {
	if len(points) == 0 {
		return fmt.Errorf("validation failed: no track points")
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Seq < points[j].Seq })
	for i := 1; i < len(points); i++ {
		if points[i].ElapsedSec < points[i-1].ElapsedSec {
			return fmt.Errorf("validation failed: elapsed time not monotonic at seq %d", points[i].Seq)
		}
	}

	if err := a.repo.CreateTrackPoints(ctx, rideID, points); err != nil {
		return fmt.Errorf("failed to import track: %w", err)
	}

	log.Info().
		Str("ride_id", rideID.String()).
		Int("points", len(points)).
		Msg("imported track")
	return nil
}

// GetRide retrieves a ride by ID
func (a *App) GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	return a.repo.GetRide(ctx, id)
}

// ListRides retrieves all rides
func (a *App) ListRides(ctx context.Context) ([]models.Ride, error) {
	return a.repo.ListRides(ctx)
}

// GetTrackPoints retrieves a ride's samples
func (a *App) GetTrackPoints(ctx context.Context, rideID uuid.UUID) ([]models.TrackPoint, error) {
	return a.repo.GetTrackPoints(ctx, rideID)
}

// GetProfile loads the playback profile for a ride: its duration plus
// idle spans detected from the recorded samples.
func (a *App) GetProfile(ctx context.Context, rideID uuid.UUID) (*Profile, error) {
	ride, err := a.repo.GetRide(ctx, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ride: %w", err)
	}

	points, err := a.repo.GetTrackPoints(ctx, rideID)
	if err != nil {
		return nil, fmt.Errorf("failed to load track points: %w", err)
	}

	return &Profile{
		Ride:      ride,
		IdleSpans: DetectIdleSpans(points),
	}, nil
}

// RecordView bumps a ride's view counter. Failures are logged, not
// surfaced; losing a count never blocks playback.
func (a *App) RecordView(ctx context.Context, rideID uuid.UUID) {
	if err := a.repo.IncrementViewCount(ctx, rideID); err != nil {
		log.Error().Err(err).Str("ride_id", rideID.String()).Msg("failed to record view")
	}
}

// DeleteRide deletes a ride and its samples
func (a *App) DeleteRide(ctx context.Context, id uuid.UUID) error {
	if err := a.repo.DeleteRide(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}

	log.Info().Str("ride_id", id.String()).Msg("deleted ride")
	return nil
}
