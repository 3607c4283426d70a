package main

import (
	"database/sql"
	"time"

	"github.com/ridetape/server/go/internal/connectivity"
	"github.com/ridetape/server/go/internal/gateway"
	"github.com/ridetape/server/go/internal/ride"
	"github.com/ridetape/server/go/internal/session"
)

type Services struct {
	Rides    *ride.App
	Sessions *session.App
	Tracker  *connectivity.Tracker
	Gateway  *gateway.Manager
}

func setupServices(database *sql.DB, signal connectivity.Signal, config *Config) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Gateway layer

	// Rides
	rideRepo := ride.NewRepository(database)
	rideApp := ride.NewApp(rideRepo)

	// Playback sessions
	sessionApp := session.NewApp(database)

	// Connectivity
	tracker := connectivity.New(signal)

	// Gateway
	frameInterval := time.Duration(config.Playback.FrameIntervalMs) * time.Millisecond
	manager := gateway.NewManager(rideApp, sessionApp, tracker, gateway.DefaultConnectionConfig(), frameInterval)

	return &Services{
		Rides:    rideApp,
		Sessions: sessionApp,
		Tracker:  tracker,
		Gateway:  manager,
	}
}
