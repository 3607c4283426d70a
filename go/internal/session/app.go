package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/models"
	"github.com/ridetape/server/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// staleAfter is how long an untouched snapshot survives before pruning.
const staleAfter = 90 * 24 * time.Hour

// SaveSnapshotRequest represents a viewer's playback snapshot to persist
type SaveSnapshotRequest struct {
	RideID       uuid.UUID `json:"ride_id"`
	ClientID     string    `json:"client_id"`
	PositionSec  float64   `json:"position_sec"`
	Speed        float64   `json:"speed"`
	CameraFollow bool      `json:"camera_follow"`
	SkipIdle     bool      `json:"skip_idle"`
}

// App handles playback session business logic
type App struct {
	db *sql.DB
}

// NewApp creates a new session App
func NewApp(db *sql.DB) *App {
	return &App{db: db}
}

// SaveSnapshot persists a viewer's playback position so a reload can
// resume. Stale snapshots are pruned in the same transaction.
func (a *App) SaveSnapshot(ctx context.Context, req SaveSnapshotRequest) (*models.PlaybackSession, error) {
	if req.ClientID == "" {
		return nil, fmt.Errorf("validation failed: client_id is required")
	}
	if req.Speed <= 0 {
		return nil, fmt.Errorf("validation failed: speed must be positive")
	}
	if req.PositionSec < 0 {
		req.PositionSec = 0
	}

	var saved *models.PlaybackSession
	err := sqlutil.Run(ctx, a.db, func(tx *sql.Tx) error {
		repo := NewRepository(tx)

		s, err := repo.Upsert(ctx, req)
		if err != nil {
			return err
		}
		saved = s

		pruned, err := repo.PruneStale(ctx, time.Now().UTC().Add(-staleAfter))
		if err != nil {
			return err
		}
		if pruned > 0 {
			log.Debug().Int64("pruned", pruned).Msg("pruned stale playback sessions")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	log.Debug().
		Str("ride_id", req.RideID.String()).
		Str("client_id", req.ClientID).
		Float64("position_sec", req.PositionSec).
		Msg("saved playback snapshot")
	return saved, nil
}

// GetResume retrieves the saved snapshot for a ride and client. A
// missing snapshot is not an error; it returns nil.
func (a *App) GetResume(ctx context.Context, rideID uuid.UUID, clientID string) (*models.PlaybackSession, error) {
	s, err := NewRepository(a.db).Get(ctx, rideID, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return s, nil
}
