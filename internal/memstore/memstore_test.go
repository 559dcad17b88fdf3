package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline-air/reservation-service/internal/database"
)

func seedFlight(t *testing.T, s *Store, total, available int) database.Flight {
	t.Helper()
	now := time.Now()
	f := database.Flight{
		FlightNumber:     "SK900",
		DepartureAirport: "JFK",
		ArrivalAirport:   "BOS",
		DepartureTime:    now.Add(6 * time.Hour),
		ArrivalTime:      now.Add(7 * time.Hour),
		TotalSeats:       total,
		AvailableSeats:   available,
		Price:            99.00,
	}
	require.NoError(t, s.CreateFlight(context.Background(), &f))
	return f
}

func book(t *testing.T, s *Store, flightID uuid.UUID) *database.Reservation {
	t.Helper()
	res := &database.Reservation{
		FlightID:       flightID,
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	}
	require.NoError(t, s.CreateReservation(context.Background(), res))
	return res
}

func availableSeats(t *testing.T, s *Store, flightID uuid.UUID) int {
	t.Helper()
	f, err := s.GetFlightByID(context.Background(), flightID)
	require.NoError(t, err)
	return f.AvailableSeats
}

func TestCreateReservation_ConsumesSeat(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 10, 10)

	res := book(t, s, f.ID)

	assert.Equal(t, database.StatusConfirmed, res.Status)
	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.False(t, res.CreatedAt.IsZero())
	assert.Equal(t, 9, availableSeats(t, s, f.ID))
}

func TestCreateReservation_SoldOut(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 5, 0)

	res := &database.Reservation{
		FlightID:       f.ID,
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	}
	err := s.CreateReservation(context.Background(), res)

	require.ErrorIs(t, err, database.ErrNoSeatsAvailable)
	assert.Equal(t, 0, availableSeats(t, s, f.ID))

	reservations, err := s.GetReservations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestCreateReservation_FlightNotFound(t *testing.T) {
	s := New()

	res := &database.Reservation{
		FlightID:       uuid.New(),
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	}
	err := s.CreateReservation(context.Background(), res)

	require.ErrorIs(t, err, database.ErrFlightNotFound)
}

func TestCancelReservation_ReleasesSeatOnce(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 10, 10)
	res := book(t, s, f.ID)
	require.Equal(t, 9, availableSeats(t, s, f.ID))

	cancelled, err := s.CancelReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, 10, availableSeats(t, s, f.ID))

	stored, err := s.GetReservationByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, database.StatusCancelled, stored.Status)

	// Second cancel must not release another seat.
	cancelled, err = s.CancelReservation(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Equal(t, 10, availableSeats(t, s, f.ID))
}

func TestCancelReservation_UnknownID(t *testing.T) {
	s := New()
	seedFlight(t, s, 10, 10)

	cancelled, err := s.CancelReservation(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestDeleteReservation_ReleasesConfirmedSeat(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 10, 10)
	res := book(t, s, f.ID)

	require.NoError(t, s.DeleteReservation(context.Background(), res.ID))
	assert.Equal(t, 10, availableSeats(t, s, f.ID))

	_, err := s.GetReservationByID(context.Background(), res.ID)
	assert.True(t, errors.Is(err, database.ErrNotFound))

	// Deleting again is a no-op and changes nothing.
	require.NoError(t, s.DeleteReservation(context.Background(), res.ID))
	assert.Equal(t, 10, availableSeats(t, s, f.ID))
}

func TestDeleteCancelledReservation_NoDoubleRelease(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 10, 10)
	res := book(t, s, f.ID)

	cancelled, err := s.CancelReservation(context.Background(), res.ID)
	require.NoError(t, err)
	require.True(t, cancelled)
	require.Equal(t, 10, availableSeats(t, s, f.ID))

	require.NoError(t, s.DeleteReservation(context.Background(), res.ID))
	assert.Equal(t, 10, availableSeats(t, s, f.ID))
}

func TestUpdateReservation_NoSeatEffect(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 10, 10)
	res := book(t, s, f.ID)

	updated, err := s.UpdateReservation(context.Background(), res.ID,
		"John Roe", "john@example.com", "+1-555-0100", "12C")
	require.NoError(t, err)

	assert.Equal(t, "John Roe", updated.PassengerName)
	assert.Equal(t, "john@example.com", updated.PassengerEmail)
	assert.Equal(t, "+1-555-0100", updated.PassengerPhone)
	assert.Equal(t, "12C", updated.SeatNumber)
	assert.Equal(t, database.StatusConfirmed, updated.Status)
	assert.Equal(t, res.FlightID, updated.FlightID)
	assert.Equal(t, 9, availableSeats(t, s, f.ID))
}

func TestConcurrentBooking_SingleSeat(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 1, 1)

	const attempts = 50
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := &database.Reservation{
				FlightID:       f.ID,
				PassengerName:  "Jane Roe",
				PassengerEmail: "jane@example.com",
			}
			errs <- s.CreateReservation(context.Background(), res)
		}()
	}
	wg.Wait()
	close(errs)

	var successes, soldOut int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, database.ErrNoSeatsAvailable):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, soldOut)
	assert.Equal(t, 0, availableSeats(t, s, f.ID))
}

func TestConcurrentBooking_SeatConservation(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 20, 20)

	const attempts = 60
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := &database.Reservation{
				FlightID:       f.ID,
				PassengerName:  "Jane Roe",
				PassengerEmail: "jane@example.com",
			}
			s.CreateReservation(context.Background(), res)
		}()
	}
	wg.Wait()

	flight, err := s.GetFlightByID(context.Background(), f.ID)
	require.NoError(t, err)

	reservations, err := s.GetReservationsByFlight(context.Background(), f.ID)
	require.NoError(t, err)

	confirmed := 0
	for _, res := range reservations {
		if res.Status == database.StatusConfirmed {
			confirmed++
		}
	}

	assert.Equal(t, 20, confirmed)
	assert.Equal(t, 0, flight.AvailableSeats)
	assert.Equal(t, flight.TotalSeats, confirmed+flight.AvailableSeats)
	assert.GreaterOrEqual(t, flight.AvailableSeats, 0)
	assert.LessOrEqual(t, flight.AvailableSeats, flight.TotalSeats)
}

func TestConcurrentCancel_ReleasesOnce(t *testing.T) {
	s := New()
	f := seedFlight(t, s, 10, 10)
	res := book(t, s, f.ID)

	const attempts = 20
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CancelReservation(context.Background(), res.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, availableSeats(t, s, f.ID))
}
