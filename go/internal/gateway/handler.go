package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for playback connections
type WebSocketHandler struct {
	manager *Manager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(manager *Manager) *WebSocketHandler {
	return &WebSocketHandler{manager: manager}
}

// HandlePlaybackConnection handles WebSocket connections for a specific ride
func (h *WebSocketHandler) HandlePlaybackConnection(w http.ResponseWriter, r *http.Request) {
	rideIDStr := r.URL.Query().Get("ride_id")
	if rideIDStr == "" {
		http.Error(w, "ride_id is required", http.StatusBadRequest)
		return
	}

	rideID, err := uuid.Parse(rideIDStr)
	if err != nil {
		http.Error(w, "invalid ride_id format", http.StatusBadRequest)
		return
	}

	// Client ID identifies the viewer for resume; anonymous viewers get
	// no persistence.
	clientID := r.URL.Query().Get("client_id")

	if err := h.manager.UpgradeConnection(w, r, clientID, rideID); err != nil {
		log.Error().
			Err(err).
			Str("ride_id", rideID.String()).
			Str("client_id", clientID).
			Msg("failed to upgrade WebSocket connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
		return
	}
}

// HandleConnectionStats returns statistics about active rooms and connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	rooms, connections := h.manager.Stats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"active_rooms":      rooms,
		"total_connections": connections,
	})
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/playback", h.HandlePlaybackConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
