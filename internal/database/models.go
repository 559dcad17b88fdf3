package database

import (
	"time"

	"github.com/google/uuid"
)

// Flight represents a flight in the database. TotalSeats is fixed at
// creation; AvailableSeats is only ever moved through the SeatLedger.
type Flight struct {
	ID               uuid.UUID `json:"id"`
	FlightNumber     string    `json:"flightNumber"`
	DepartureAirport string    `json:"departureAirport"`
	ArrivalAirport   string    `json:"arrivalAirport"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	AircraftType     string    `json:"aircraftType,omitempty"`
	TotalSeats       int       `json:"totalSeats"`
	AvailableSeats   int       `json:"availableSeats"`
	Price            float64   `json:"price"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	// StatusPending exists in the enum and the schema but no operation
	// currently transitions a reservation into or out of it.
	StatusPending ReservationStatus = "PENDING"
)

// Reservation represents a reservation in the database. It references
// its flight by id only; the flight's lifecycle is managed separately.
type Reservation struct {
	ID             uuid.UUID         `json:"id"`
	FlightID       uuid.UUID         `json:"flightId"`
	PassengerName  string            `json:"passengerName"`
	PassengerEmail string            `json:"passengerEmail"`
	PassengerPhone string            `json:"passengerPhone,omitempty"`
	SeatNumber     string            `json:"seatNumber,omitempty"`
	Status         ReservationStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
}
