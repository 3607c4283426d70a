package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/playback"
	"github.com/ridetape/server/go/internal/ride"
	"github.com/ridetape/server/go/internal/session"
	"github.com/rs/zerolog/log"
)

// Room is one ride's live playback: a shared clock, its frame driver,
// and the connections watching it. The driver goroutine runs for the
// room's lifetime and stops when the last viewer leaves.
type Room struct {
	rideID      uuid.UUID
	clock       *playback.Clock
	durationSec float64
	manager     *Manager
	cancel      context.CancelFunc

	mu    sync.RWMutex
	conns map[*Connection]bool
}

func newRoom(m *Manager, rideID uuid.UUID, profile *ride.Profile, frameInterval time.Duration) *Room {
	room := &Room{
		rideID:      rideID,
		clock:       playback.NewClock(),
		durationSec: profile.Ride.DurationSec,
		manager:     m,
		conns:       make(map[*Connection]bool),
	}

	spans := make([]playback.Span, len(profile.IdleSpans))
	for i, s := range profile.IdleSpans {
		spans[i] = playback.Span{StartSec: s.StartSec, EndSec: s.EndSec}
	}

	driver := playback.NewDriver(room.clock, playback.Profile{
		DurationSec: profile.Ride.DurationSec,
		IdleSpans:   spans,
	}, frameInterval, room.onFrame)

	ctx, cancel := context.WithCancel(context.Background())
	room.cancel = cancel
	go driver.Run(ctx)

	return room
}

// onFrame broadcasts the post-tick state to every viewer, alongside the
// connectivity banner state.
func (rm *Room) onFrame(snap playback.Snapshot) {
	event, err := newEvent(EventTypeFrame, rm.rideID.String(), FramePayload{
		Playback:     snap,
		DurationSec:  rm.durationSec,
		Connectivity: rm.manager.tracker.State(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build frame event")
		return
	}
	rm.broadcast(event)
}

// register adds a connection to the room
func (rm *Room) register(conn *Connection) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.conns[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("ride_id", rm.rideID.String()).
		Int("total_connections", len(rm.conns)).
		Msg("connection registered")
}

// unregister removes a connection, saves its playback snapshot, and
// tears the room down when it was the last viewer.
func (rm *Room) unregister(conn *Connection) {
	rm.mu.Lock()
	if _, exists := rm.conns[conn]; !exists {
		rm.mu.Unlock()
		return
	}
	delete(rm.conns, conn)
	close(conn.Send)
	empty := len(rm.conns) == 0
	rm.mu.Unlock()

	rm.saveSnapshot(conn.ClientID)

	log.Info().
		Str("connection_id", conn.ID).
		Str("client_id", conn.ClientID).
		Str("ride_id", rm.rideID.String()).
		Msg("connection unregistered")

	if empty {
		rm.cancel()
		rm.manager.removeRoom(rm.rideID)
		log.Info().Str("ride_id", rm.rideID.String()).Msg("closed playback room")
	}
}

// saveSnapshot persists the departing viewer's position for resume.
func (rm *Room) saveSnapshot(clientID string) {
	if clientID == "" {
		return
	}

	snap := rm.clock.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := rm.manager.sessions.SaveSnapshot(ctx, session.SaveSnapshotRequest{
		RideID:       rm.rideID,
		ClientID:     clientID,
		PositionSec:  snap.CurrentTime,
		Speed:        snap.PlaybackSpeed,
		CameraFollow: snap.CameraFollow,
		SkipIdle:     snap.SkipIdle,
	})
	if err != nil {
		log.Error().Err(err).
			Str("ride_id", rm.rideID.String()).
			Str("client_id", clientID).
			Msg("failed to save playback snapshot")
	}
}

// broadcast sends an event to all connections in the room.
func (rm *Room) broadcast(event *PlayerEvent) {
	rm.mu.RLock()
	targets := make([]*Connection, 0, len(rm.conns))
	for conn := range rm.conns {
		targets = append(targets, conn)
	}
	rm.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	// Marshal the event once
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		select {
		case conn.Send <- data:
		default:
			// Connection is slow/dead, close it
			log.Warn().
				Str("connection_id", conn.ID).
				Msg("connection send buffer full, closing connection")
			rm.unregister(conn)
			conn.Conn.Close()
		}
	}
}

func (rm *Room) connectionCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.conns)
}

// close stops the driver and drops all connections without saving.
func (rm *Room) close() {
	rm.cancel()

	rm.mu.Lock()
	defer rm.mu.Unlock()
	for conn := range rm.conns {
		close(conn.Send)
		conn.Conn.Close()
	}
	rm.conns = make(map[*Connection]bool)
}
