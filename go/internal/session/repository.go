package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/models"
)

// DBTX defines what the repository needs from the database layer; both
// *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements playback session data access operations
type Repository struct {
	db DBTX
}

// NewRepository creates a new session repository bound to db, which may
// be a transaction.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Upsert saves a viewer's playback snapshot for a ride, replacing any
// previous snapshot for the same ride and client.
func (r *Repository) Upsert(ctx context.Context, req SaveSnapshotRequest) (*models.PlaybackSession, error) {
	s := &models.PlaybackSession{
		ID:           uuid.New(),
		RideID:       req.RideID,
		ClientID:     req.ClientID,
		PositionSec:  req.PositionSec,
		Speed:        req.Speed,
		CameraFollow: req.CameraFollow,
		SkipIdle:     req.SkipIdle,
		UpdatedAt:    time.Now().UTC(),
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO playback_sessions (id, ride_id, client_id, position_sec, speed, camera_follow, skip_idle, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ride_id, client_id) DO UPDATE SET
			position_sec = EXCLUDED.position_sec,
			speed = EXCLUDED.speed,
			camera_follow = EXCLUDED.camera_follow,
			skip_idle = EXCLUDED.skip_idle,
			updated_at = EXCLUDED.updated_at
		RETURNING id`,
		s.ID, s.RideID, s.ClientID, s.PositionSec, s.Speed, s.CameraFollow, s.SkipIdle, s.UpdatedAt,
	)
	if err := row.Scan(&s.ID); err != nil {
		return nil, fmt.Errorf("failed to save playback session: %w", err)
	}

	return s, nil
}

// Get retrieves the saved snapshot for a ride and client, or
// sql.ErrNoRows when none exists.
func (r *Repository) Get(ctx context.Context, rideID uuid.UUID, clientID string) (*models.PlaybackSession, error) {
	var s models.PlaybackSession
	err := r.db.QueryRowContext(ctx, `
		SELECT id, ride_id, client_id, position_sec, speed, camera_follow, skip_idle, updated_at
		FROM playback_sessions
		WHERE ride_id = $1 AND client_id = $2`,
		rideID, clientID,
	).Scan(&s.ID, &s.RideID, &s.ClientID, &s.PositionSec, &s.Speed, &s.CameraFollow, &s.SkipIdle, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PruneStale deletes snapshots not touched since the cutoff.
func (r *Repository) PruneStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM playback_sessions WHERE updated_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return n, nil
}
