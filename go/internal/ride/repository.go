package ride

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/models"
	"github.com/ridetape/server/go/internal/sqlutil"
)

// DBTX defines what the repository needs from the database layer; both
// *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements ride data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new ride repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// CreateRide registers a new ride
func (r *Repository) CreateRide(ctx context.Context, req CreateRideRequest) (*models.Ride, error) {
	ride := &models.Ride{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		DurationSec: req.DurationSec,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rides (id, name, description, duration_sec, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ride.ID, ride.Name, sqlutil.ToSqlString(ride.Description), ride.DurationSec, ride.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	return ride, nil
}

// GetRide retrieves a ride by ID
func (r *Repository) GetRide(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.name, r.description, r.duration_sec, r.view_count, r.created_at,
		       (SELECT COUNT(*) FROM track_points p WHERE p.ride_id = r.id)
		FROM rides r
		WHERE r.id = $1`,
		id,
	)

	ride, err := scanRide(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}
	return ride, nil
}

// ListRides retrieves all rides, newest first
func (r *Repository) ListRides(ctx context.Context) ([]models.Ride, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.description, r.duration_sec, r.view_count, r.created_at,
		       (SELECT COUNT(*) FROM track_points p WHERE p.ride_id = r.id)
		FROM rides r
		ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	defer rows.Close()

	var rides []models.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list rides: %w", err)
		}
		rides = append(rides, *ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}

	return rides, nil
}

// CreateTrackPoints inserts a batch of track samples for a ride
func (r *Repository) CreateTrackPoints(ctx context.Context, rideID uuid.UUID, points []CreatePointRequest) error {
	for _, p := range points {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO track_points (ride_id, seq, elapsed_sec, lat, lon, elevation_m, speed_kmh)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rideID, p.Seq, p.ElapsedSec, p.Lat, p.Lon, p.ElevationM, p.SpeedKmh,
		)
		if err != nil {
			return fmt.Errorf("failed to insert track point %d: %w", p.Seq, err)
		}
	}
	return nil
}

// GetTrackPoints retrieves a ride's samples ordered by sequence
func (r *Repository) GetTrackPoints(ctx context.Context, rideID uuid.UUID) ([]models.TrackPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ride_id, seq, elapsed_sec, lat, lon, elevation_m, speed_kmh
		FROM track_points
		WHERE ride_id = $1
		ORDER BY seq`,
		rideID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get track points: %w", err)
	}
	defer rows.Close()

	var points []models.TrackPoint
	for rows.Next() {
		var p models.TrackPoint
		if err := rows.Scan(&p.RideID, &p.Seq, &p.ElapsedSec, &p.Lat, &p.Lon, &p.ElevationM, &p.SpeedKmh); err != nil {
			return nil, fmt.Errorf("failed to get track points: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get track points: %w", err)
	}

	return points, nil
}

// IncrementViewCount bumps a ride's view counter
func (r *Repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE rides SET view_count = view_count + 1 WHERE id = $1`,
		id,
	); err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

// DeleteRide deletes a ride and its track points
func (r *Repository) DeleteRide(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM track_points WHERE ride_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete track points: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rides WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRide(row scanner) (*models.Ride, error) {
	var (
		ride models.Ride
		desc sql.NullString
	)
	if err := row.Scan(&ride.ID, &ride.Name, &desc, &ride.DurationSec, &ride.ViewCount, &ride.CreatedAt, &ride.PointCount); err != nil {
		return nil, err
	}
	ride.Description = sqlutil.FromSqlStringPtr(desc)
	return &ride, nil
}
