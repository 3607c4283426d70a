package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ridetape/server/go/internal/connectivity"
	"github.com/ridetape/server/go/internal/ride"
	"github.com/ridetape/server/go/internal/session"
	"github.com/rs/zerolog/log"
)

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// Manager owns one playback room per ride and the WebSocket connections
// viewing them. It is the presentation-side collaborator of the playback
// clock: connections send commands in, frames stream out.
type Manager struct {
	rides    *ride.App
	sessions *session.App
	tracker  *connectivity.Tracker

	upgrader      websocket.Upgrader
	config        ConnectionConfig
	frameInterval time.Duration

	mu    sync.RWMutex
	rooms map[uuid.UUID]*Room
}

// NewManager creates a gateway manager. frameInterval is the cadence of
// the per-room frame drivers.
func NewManager(rides *ride.App, sessions *session.App, tracker *connectivity.Tracker, config ConnectionConfig, frameInterval time.Duration) *Manager {
	return &Manager{
		rides:    rides,
		sessions: sessions,
		tracker:  tracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:        config,
		frameInterval: frameInterval,
		rooms:         make(map[uuid.UUID]*Room),
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and joins
// it to the ride's playback room, creating the room if this is the
// first viewer.
func (m *Manager) UpgradeConnection(w http.ResponseWriter, r *http.Request, clientID string, rideID uuid.UUID) error {
	room, created, err := m.roomFor(r.Context(), rideID)
	if err != nil {
		return fmt.Errorf("failed to open playback room: %w", err)
	}

	resume, err := m.sessions.GetResume(r.Context(), rideID, clientID)
	if err != nil {
		log.Error().Err(err).Str("ride_id", rideID.String()).Str("client_id", clientID).Msg("failed to load resume snapshot")
		resume = nil
	}
	// A saved position only steers the shared clock when this viewer
	// opened the room; later joiners see the room's current state.
	if created && resume != nil {
		room.clock.Seek(resume.PositionSec)
		room.clock.SetSpeed(resume.Speed)
		room.clock.SetCameraFollow(resume.CameraFollow)
		room.clock.SetSkipIdle(resume.SkipIdle)
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		RideID:      rideID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		room:        room,
		ConnectedAt: time.Now(),
	}

	room.register(connection)

	go connection.writePump()
	go connection.readPump()

	if resume != nil {
		if event, err := newEvent(EventTypeResume, rideID.String(), ResumePayload{
			PositionSec:  resume.PositionSec,
			Speed:        resume.Speed,
			CameraFollow: resume.CameraFollow,
			SkipIdle:     resume.SkipIdle,
		}); err == nil {
			connection.send(event)
		}
	}

	log.Info().
		Str("connection_id", connection.ID).
		Str("client_id", clientID).
		Str("ride_id", rideID.String()).
		Msg("WebSocket connection established")

	return nil
}

// roomFor returns the room for a ride, creating it on first use.
func (m *Manager) roomFor(ctx context.Context, rideID uuid.UUID) (*Room, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, exists := m.rooms[rideID]; exists {
		return room, false, nil
	}

	profile, err := m.rides.GetProfile(ctx, rideID)
	if err != nil {
		return nil, false, err
	}

	room := newRoom(m, rideID, profile, m.frameInterval)
	m.rooms[rideID] = room
	m.rides.RecordView(ctx, rideID)

	log.Info().
		Str("ride_id", rideID.String()).
		Float64("duration_sec", profile.Ride.DurationSec).
		Int("idle_spans", len(profile.IdleSpans)).
		Msg("opened playback room")
	return room, true, nil
}

// removeRoom drops an empty room. Called by the room itself after its
// last connection leaves.
func (m *Manager) removeRoom(rideID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, rideID)
}

// Stats returns counts of active rooms and connections.
func (m *Manager) Stats() (rooms, connections int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, room := range m.rooms {
		connections += room.connectionCount()
	}
	return len(m.rooms), connections
}

// Shutdown stops every room's frame driver and closes all connections.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.rooms = make(map[uuid.UUID]*Room)
	m.mu.Unlock()

	for _, room := range rooms {
		room.close()
	}
	log.Info().Int("rooms", len(rooms)).Msg("gateway shut down")
}
