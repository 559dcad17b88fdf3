package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/skyline-air/reservation-service/internal/database"
	"github.com/skyline-air/reservation-service/internal/service"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	reservationService service.ReservationService
}

// NewHandler creates a new Handler instance
func NewHandler(reservationService service.ReservationService) *Handler {
	return &Handler{
		reservationService: reservationService,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.reservationService.GetFlights(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list flights")
		return
	}
	if flights == nil {
		flights = []database.Flight{}
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	flight, err := h.reservationService.GetFlight(r.Context(), flightID)
	if err != nil {
		if errors.Is(err, database.ErrFlightNotFound) {
			respondError(w, http.StatusNotFound, "Flight not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get flight")
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetReservations handles GET /api/reservations
func (h *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservationService.GetReservations(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []database.Reservation{}
	}
	respondJSON(w, http.StatusOK, reservations)
}

// GetReservation handles GET /api/reservations/{id}
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["id"]
	reservation, err := h.reservationService.GetReservation(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Reservation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get reservation")
		return
	}
	respondJSON(w, http.StatusOK, reservation)
}

// GetReservationsByEmail handles GET /api/reservations/email/{email}
func (h *Handler) GetReservationsByEmail(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	reservations, err := h.reservationService.GetReservationsByEmail(r.Context(), email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []database.Reservation{}
	}
	respondJSON(w, http.StatusOK, reservations)
}

// GetReservationsByFlight handles GET /api/reservations/flight/{flightId}
func (h *Handler) GetReservationsByFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["flightId"]
	reservations, err := h.reservationService.GetReservationsByFlight(r.Context(), flightID)
	if err != nil {
		if errors.Is(err, database.ErrFlightNotFound) {
			respondError(w, http.StatusNotFound, "Flight not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to list reservations")
		return
	}
	if reservations == nil {
		reservations = []database.Reservation{}
	}
	respondJSON(w, http.StatusOK, reservations)
}

// BookReservation handles POST /api/reservations
func (h *Handler) BookReservation(w http.ResponseWriter, r *http.Request) {
	var req service.BookReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FlightID == "" {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}
	if req.PassengerName == "" {
		respondError(w, http.StatusBadRequest, "Passenger name is required")
		return
	}
	if req.PassengerEmail == "" {
		respondError(w, http.StatusBadRequest, "Passenger email is required")
		return
	}

	reservation, err := h.reservationService.BookReservation(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrFlightNotFound):
			respondError(w, http.StatusNotFound, "Flight not found")
		case errors.Is(err, database.ErrNoSeatsAvailable):
			respondError(w, http.StatusConflict, "No seats available")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to book reservation")
		}
		return
	}

	respondJSON(w, http.StatusCreated, reservation)
}

// UpdateReservation handles PUT /api/reservations/{id}
func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["id"]

	var req service.UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.PassengerName == "" {
		respondError(w, http.StatusBadRequest, "Passenger name is required")
		return
	}
	if req.PassengerEmail == "" {
		respondError(w, http.StatusBadRequest, "Passenger email is required")
		return
	}

	reservation, err := h.reservationService.UpdateReservation(r.Context(), reservationID, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Reservation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to update reservation")
		return
	}

	respondJSON(w, http.StatusOK, reservation)
}

// CancelReservation handles PATCH /api/reservations/{id}/cancel
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["id"]

	cancelled, err := h.reservationService.CancelReservation(r.Context(), reservationID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to cancel reservation")
		return
	}
	if !cancelled {
		respondError(w, http.StatusNotFound, "Reservation not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Reservation cancelled"})
}

// DeleteReservation handles DELETE /api/reservations/{id}
func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["id"]

	if err := h.reservationService.DeleteReservation(r.Context(), reservationID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete reservation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
