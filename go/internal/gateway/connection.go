package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Connection represents a WebSocket connection to a viewer
type Connection struct {
	ID       string
	ClientID string
	RideID   uuid.UUID
	Conn     *websocket.Conn
	Send     chan []byte
	room     *Room

	ConnectedAt time.Time
}

// send queues an event for this connection only.
func (c *Connection) send(event *PlayerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to marshal event")
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Warn().Str("connection_id", c.ID).Msg("send buffer full, dropping event")
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	config := c.room.manager.config
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.room.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump reads playback commands from the WebSocket connection and
// applies them to the room's clock.
func (c *Connection) readPump() {
	config := c.room.manager.config
	defer func() {
		c.room.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(config.ReadTimeout))
	}
}

// handleClientMessage parses and applies a playback command. Malformed
// commands are logged and dropped; the clock itself never fails.
func (c *Connection) handleClientMessage(message []byte) {
	cmd, err := parseCommand(message)
	if err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			RawJSON("message", message).
			Msg("invalid client message")
		return
	}

	if err := applyCommand(c.room.clock, cmd); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID).
			Str("command", string(cmd.Type)).
			Msg("rejected client command")
		return
	}

	log.Debug().
		Str("connection_id", c.ID).
		Str("command", string(cmd.Type)).
		Msg("applied client command")
}
