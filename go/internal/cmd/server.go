package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/ridetape/server/go/internal/gateway"
	"github.com/ridetape/server/go/internal/ride"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func setupServer(services *Services, config *Config) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	// Register ride API and WebSocket routes
	registerRideRoutes(mux, services)
	wsHandler := gateway.NewWebSocketHandler(services.Gateway)
	wsHandler.RegisterRoutes(mux)

	// Add health check endpoint
	setupHealthCheck(mux)

	// Wrap with CORS
	handler := c.Handler(mux)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Server.Port),
		Handler: handler,
	}
}

func registerRideRoutes(mux *http.ServeMux, services *Services) {
	mux.HandleFunc("POST /api/rides", func(w http.ResponseWriter, r *http.Request) {
		var req ride.CreateRideRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		created, err := services.Rides.CreateRide(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			log.Error().Err(err).Msg("failed to encode response")
		}
	})

	mux.HandleFunc("POST /api/rides/{id}/track", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid ride id", http.StatusBadRequest)
			return
		}
		var points []ride.CreatePointRequest
		if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := services.Rides.ImportTrack(r.Context(), id, points); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("DELETE /api/rides/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid ride id", http.StatusBadRequest)
			return
		}
		if err := services.Rides.DeleteRide(r.Context(), id); err != nil {
			log.Error().Err(err).Str("ride_id", id.String()).Msg("failed to delete ride")
			http.Error(w, "failed to delete ride", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/rides", func(w http.ResponseWriter, r *http.Request) {
		rides, err := services.Rides.ListRides(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to list rides")
			http.Error(w, "failed to list rides", http.StatusInternalServerError)
			return
		}
		writeJSON(w, rides)
	})

	mux.HandleFunc("GET /api/rides/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid ride id", http.StatusBadRequest)
			return
		}
		found, err := services.Rides.GetRide(r.Context(), id)
		if err != nil {
			http.Error(w, "ride not found", http.StatusNotFound)
			return
		}
		writeJSON(w, found)
	})

	mux.HandleFunc("GET /api/rides/{id}/track", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid ride id", http.StatusBadRequest)
			return
		}
		points, err := services.Rides.GetTrackPoints(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("ride_id", id.String()).Msg("failed to load track")
			http.Error(w, "failed to load track", http.StatusInternalServerError)
			return
		}
		writeJSON(w, points)
	})

	mux.HandleFunc("GET /api/rides/{id}/profile", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			http.Error(w, "invalid ride id", http.StatusBadRequest)
			return
		}
		profile, err := services.Rides.GetProfile(r.Context(), id)
		if err != nil {
			http.Error(w, "ride not found", http.StatusNotFound)
			return
		}
		writeJSON(w, profile)
	})
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
