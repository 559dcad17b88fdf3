// Package memstore provides an in-memory implementation of the service
// store, used when no database is configured and by tests. Seat-count
// mutations for a flight serialize on that flight's own mutex, so the
// read-check-write is atomic per flight and flights do not contend
// with each other.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skyline-air/reservation-service/internal/database"
)

type flightEntry struct {
	mu sync.Mutex // serializes seat mutations for this flight
	f  database.Flight
}

// Store keeps flights and reservations in memory.
type Store struct {
	mu           sync.RWMutex // guards the maps and reservation records
	flights      map[uuid.UUID]*flightEntry
	reservations map[uuid.UUID]*database.Reservation
}

// New creates an empty Store
func New() *Store {
	return &Store{
		flights:      make(map[uuid.UUID]*flightEntry),
		reservations: make(map[uuid.UUID]*database.Reservation),
	}
}

// --- Flight Operations ---

// CreateFlight inserts a new flight
func (s *Store) CreateFlight(ctx context.Context, f *database.Flight) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[f.ID] = &flightEntry{f: *f}
	return nil
}

// GetFlights returns all flights ordered by departure time
func (s *Store) GetFlights(ctx context.Context) ([]database.Flight, error) {
	s.mu.RLock()
	entries := make([]*flightEntry, 0, len(s.flights))
	for _, e := range s.flights {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	flights := make([]database.Flight, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		flights = append(flights, e.f)
		e.mu.Unlock()
	}
	sort.Slice(flights, func(i, j int) bool {
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})
	return flights, nil
}

// GetFlightByID returns a flight by ID
func (s *Store) GetFlightByID(ctx context.Context, id uuid.UUID) (*database.Flight, error) {
	s.mu.RLock()
	e, ok := s.flights[id]
	s.mu.RUnlock()
	if !ok {
		return nil, database.ErrFlightNotFound
	}

	e.mu.Lock()
	f := e.f
	e.mu.Unlock()
	return &f, nil
}

// --- Reservation Operations ---

// GetReservations returns all reservations
func (s *Store) GetReservations(ctx context.Context) ([]database.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservations := make([]database.Reservation, 0, len(s.reservations))
	for _, res := range s.reservations {
		reservations = append(reservations, *res)
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].CreatedAt.Before(reservations[j].CreatedAt)
	})
	return reservations, nil
}

// GetReservationByID returns a reservation by ID
func (s *Store) GetReservationByID(ctx context.Context, id uuid.UUID) (*database.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := *res
	return &out, nil
}

// GetReservationsByEmail returns all reservations for a passenger email
func (s *Store) GetReservationsByEmail(ctx context.Context, email string) ([]database.Reservation, error) {
	return s.filterReservations(func(res *database.Reservation) bool {
		return res.PassengerEmail == email
	})
}

// GetReservationsByFlight returns all reservations for a flight
func (s *Store) GetReservationsByFlight(ctx context.Context, flightID uuid.UUID) ([]database.Reservation, error) {
	return s.filterReservations(func(res *database.Reservation) bool {
		return res.FlightID == flightID
	})
}

func (s *Store) filterReservations(keep func(*database.Reservation) bool) ([]database.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reservations []database.Reservation
	for _, res := range s.reservations {
		if keep(res) {
			reservations = append(reservations, *res)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].CreatedAt.Before(reservations[j].CreatedAt)
	})
	return reservations, nil
}

// CreateReservation books a seat. The seat decrement and the record
// insertion happen under the flight's mutex, so no reader observes one
// without the other.
func (s *Store) CreateReservation(ctx context.Context, res *database.Reservation) error {
	s.mu.RLock()
	e, ok := s.flights[res.FlightID]
	s.mu.RUnlock()
	if !ok {
		return database.ErrFlightNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.f.AvailableSeats <= 0 {
		return database.ErrNoSeatsAvailable
	}
	e.f.AvailableSeats--
	e.f.UpdatedAt = time.Now()

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	res.Status = database.StatusConfirmed
	res.CreatedAt = time.Now()

	stored := *res
	s.mu.Lock()
	s.reservations[res.ID] = &stored
	s.mu.Unlock()
	return nil
}

// UpdateReservation replaces the passenger fields of a reservation
func (s *Store) UpdateReservation(ctx context.Context, id uuid.UUID, name, email, phone, seatNumber string) (*database.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	res.PassengerName = name
	res.PassengerEmail = email
	res.PassengerPhone = phone
	res.SeatNumber = seatNumber

	out := *res
	return &out, nil
}

// CancelReservation marks a reservation CANCELLED, releasing its seat
// only on the first cancellation
func (s *Store) CancelReservation(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	res, ok := s.reservations[id]
	var e *flightEntry
	if ok {
		e = s.flights[res.FlightID]
	}
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if e != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock: a concurrent delete may have
	// removed the record while we were acquiring the flight mutex.
	res, ok = s.reservations[id]
	if !ok {
		return false, nil
	}
	if res.Status == database.StatusConfirmed && e != nil {
		s.releaseSeat(e)
	}
	res.Status = database.StatusCancelled
	return true, nil
}

// DeleteReservation removes a reservation, releasing its seat when it
// was still CONFIRMED. Unknown ids are a no-op.
func (s *Store) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	res, ok := s.reservations[id]
	var e *flightEntry
	if ok {
		e = s.flights[res.FlightID]
	}
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if e != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok = s.reservations[id]
	if !ok {
		return nil
	}
	if res.Status == database.StatusConfirmed && e != nil {
		s.releaseSeat(e)
	}
	delete(s.reservations, id)
	return nil
}

// releaseSeat bounds the increment at total_seats. Callers hold the
// flight's mutex.
func (s *Store) releaseSeat(e *flightEntry) {
	if e.f.AvailableSeats < e.f.TotalSeats {
		e.f.AvailableSeats++
		e.f.UpdatedAt = time.Now()
	}
}
