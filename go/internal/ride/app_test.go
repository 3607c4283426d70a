package ride

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory RideRepository for app-layer tests.
type fakeRepo struct {
	rides  map[uuid.UUID]*models.Ride
	points map[uuid.UUID][]models.TrackPoint
	views  map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rides:  make(map[uuid.UUID]*models.Ride),
		points: make(map[uuid.UUID][]models.TrackPoint),
		views:  make(map[uuid.UUID]int),
	}
}

func (f *fakeRepo) CreateRide(_ context.Context, req CreateRideRequest) (*models.Ride, error) {
	ride := &models.Ride{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		DurationSec: req.DurationSec,
	}
	f.rides[ride.ID] = ride
	return ride, nil
}

func (f *fakeRepo) GetRide(_ context.Context, id uuid.UUID) (*models.Ride, error) {
	ride, ok := f.rides[id]
	if !ok {
		return nil, context.Canceled
	}
	return ride, nil
}

func (f *fakeRepo) ListRides(_ context.Context) ([]models.Ride, error) {
	var rides []models.Ride
	for _, r := range f.rides {
		rides = append(rides, *r)
	}
	return rides, nil
}

func (f *fakeRepo) CreateTrackPoints(_ context.Context, rideID uuid.UUID, points []CreatePointRequest) error {
	for _, p := range points {
		f.points[rideID] = append(f.points[rideID], models.TrackPoint{
			RideID:     rideID,
			Seq:        p.Seq,
			ElapsedSec: p.ElapsedSec,
			SpeedKmh:   p.SpeedKmh,
		})
	}
	return nil
}

func (f *fakeRepo) GetTrackPoints(_ context.Context, rideID uuid.UUID) ([]models.TrackPoint, error) {
	return f.points[rideID], nil
}

func (f *fakeRepo) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	f.views[id]++
	return nil
}

func (f *fakeRepo) DeleteRide(_ context.Context, id uuid.UUID) error {
	delete(f.rides, id)
	delete(f.points, id)
	return nil
}

func TestApp_CreateRideValidation(t *testing.T) {
	app := NewApp(newFakeRepo())
	ctx := context.Background()

	_, err := app.CreateRide(ctx, CreateRideRequest{Name: "", DurationSec: 100})
	assert.ErrorContains(t, err, "name is required")

	_, err = app.CreateRide(ctx, CreateRideRequest{Name: "morning loop", DurationSec: 0})
	assert.ErrorContains(t, err, "duration must be positive")

	ride, err := app.CreateRide(ctx, CreateRideRequest{Name: "morning loop", DurationSec: 3600})
	require.NoError(t, err)
	assert.Equal(t, "morning loop", ride.Name)
}

func TestApp_ImportTrackRejectsNonMonotonicTime(t *testing.T) {
	app := NewApp(newFakeRepo())
	ctx := context.Background()

	err := app.ImportTrack(ctx, uuid.New(), []CreatePointRequest{
		{Seq: 0, ElapsedSec: 0},
		{Seq: 1, ElapsedSec: 10},
		{Seq: 2, ElapsedSec: 5},
	})

	assert.ErrorContains(t, err, "not monotonic")
}

func TestApp_ImportTrackSortsBySeq(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo)
	ctx := context.Background()

	rideID := uuid.New()
	err := app.ImportTrack(ctx, rideID, []CreatePointRequest{
		{Seq: 1, ElapsedSec: 10},
		{Seq: 0, ElapsedSec: 0},
	})

	require.NoError(t, err)
	points := repo.points[rideID]
	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].Seq)
}

func TestApp_ImportTrackRejectsEmptyBatch(t *testing.T) {
	app := NewApp(newFakeRepo())

	err := app.ImportTrack(context.Background(), uuid.New(), nil)

	assert.ErrorContains(t, err, "no track points")
}

func TestApp_GetProfileDetectsIdleSpans(t *testing.T) {
	repo := newFakeRepo()
	app := NewApp(repo)
	ctx := context.Background()

	ride, err := app.CreateRide(ctx, CreateRideRequest{Name: "commute", DurationSec: 60})
	require.NoError(t, err)

	err = app.ImportTrack(ctx, ride.ID, []CreatePointRequest{
		{Seq: 0, ElapsedSec: 0, SpeedKmh: 20},
		{Seq: 1, ElapsedSec: 10, SpeedKmh: 0},
		{Seq: 2, ElapsedSec: 40, SpeedKmh: 20},
		{Seq: 3, ElapsedSec: 60, SpeedKmh: 20},
	})
	require.NoError(t, err)

	profile, err := app.GetProfile(ctx, ride.ID)
	require.NoError(t, err)

	assert.Equal(t, ride.ID, profile.Ride.ID)
	require.Len(t, profile.IdleSpans, 1)
	assert.Equal(t, models.IdleSpan{StartSec: 10, EndSec: 40}, profile.IdleSpans[0])
}
