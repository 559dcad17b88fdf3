package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skyline-air/reservation-service/internal/handlers"
	"github.com/skyline-air/reservation-service/internal/websocket"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *websocket.Hub) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)

	// Reservations
	api.HandleFunc("/reservations", h.GetReservations).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reservations", h.BookReservation).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reservations/email/{email}", h.GetReservationsByEmail).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reservations/flight/{flightId}", h.GetReservationsByFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reservations/{id}", h.GetReservation).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reservations/{id}", h.UpdateReservation).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/reservations/{id}", h.DeleteReservation).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/reservations/{id}/cancel", h.CancelReservation).Methods(http.MethodPatch, http.MethodOptions)

	// WebSocket for real-time availability updates
	api.HandleFunc("/flights/{flightId}/ws", hub.HandleWebSocket)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
