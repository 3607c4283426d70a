package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApp_SaveSnapshotValidation(t *testing.T) {
	// Validation runs before any database access.
	app := NewApp(nil)
	ctx := context.Background()

	_, err := app.SaveSnapshot(ctx, SaveSnapshotRequest{
		RideID: uuid.New(),
		Speed:  1,
	})
	assert.ErrorContains(t, err, "client_id is required")

	_, err = app.SaveSnapshot(ctx, SaveSnapshotRequest{
		RideID:   uuid.New(),
		ClientID: "viewer-1",
		Speed:    0,
	})
	assert.ErrorContains(t, err, "speed must be positive")

	_, err = app.SaveSnapshot(ctx, SaveSnapshotRequest{
		RideID:   uuid.New(),
		ClientID: "viewer-1",
		Speed:    -2,
	})
	assert.ErrorContains(t, err, "speed must be positive")
}
