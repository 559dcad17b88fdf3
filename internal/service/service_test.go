package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skyline-air/reservation-service/internal/database"
	"github.com/skyline-air/reservation-service/internal/memstore"
)

// spyNotifier records availability broadcasts
type spyNotifier struct {
	mu    sync.Mutex
	calls []int
}

func (n *spyNotifier) BroadcastAvailability(flightID string, availableSeats int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, availableSeats)
}

func newTestService(t *testing.T, totalSeats, availableSeats int) (ReservationService, database.Flight, *spyNotifier) {
	t.Helper()
	store := memstore.New()
	now := time.Now()
	f := database.Flight{
		FlightNumber:     "SK700",
		DepartureAirport: "JFK",
		ArrivalAirport:   "SFO",
		DepartureTime:    now.Add(12 * time.Hour),
		ArrivalTime:      now.Add(18 * time.Hour),
		TotalSeats:       totalSeats,
		AvailableSeats:   availableSeats,
		Price:            250.00,
	}
	require.NoError(t, store.CreateFlight(context.Background(), &f))

	notifier := &spyNotifier{}
	svc := NewReservationService(store, zap.NewNop(), nil, notifier)
	return svc, f, notifier
}

func TestBookCancelDeleteScenario(t *testing.T) {
	svc, f, notifier := newTestService(t, 100, 100)
	ctx := context.Background()

	res, err := svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       f.ID.String(),
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
		SeatNumber:     "14A",
	})
	require.NoError(t, err)
	assert.Equal(t, database.StatusConfirmed, res.Status)

	flight, err := svc.GetFlight(ctx, f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 99, flight.AvailableSeats)

	cancelled, err := svc.CancelReservation(ctx, res.ID.String())
	require.NoError(t, err)
	assert.True(t, cancelled)

	flight, err = svc.GetFlight(ctx, f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100, flight.AvailableSeats)

	stored, err := svc.GetReservation(ctx, res.ID.String())
	require.NoError(t, err)
	assert.Equal(t, database.StatusCancelled, stored.Status)

	// Deleting the cancelled reservation must not release another seat.
	require.NoError(t, svc.DeleteReservation(ctx, res.ID.String()))

	flight, err = svc.GetFlight(ctx, f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100, flight.AvailableSeats)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []int{99, 100, 100}, notifier.calls)
}

func TestBookReservation_SoldOut(t *testing.T) {
	svc, f, _ := newTestService(t, 5, 0)
	ctx := context.Background()

	_, err := svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       f.ID.String(),
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.ErrorIs(t, err, database.ErrNoSeatsAvailable)

	flight, err := svc.GetFlight(ctx, f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, flight.AvailableSeats)

	reservations, err := svc.GetReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestBookReservation_FlightNotFound(t *testing.T) {
	svc, _, notifier := newTestService(t, 10, 10)
	ctx := context.Background()

	// Well-formed id that matches no flight.
	_, err := svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       "2b8f3b8a-7c38-44c1-9a52-0a9f6d6f8d11",
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.ErrorIs(t, err, database.ErrFlightNotFound)

	// Malformed id rejects before any ledger interaction.
	_, err = svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       "not-a-flight",
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.ErrorIs(t, err, database.ErrFlightNotFound)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Empty(t, notifier.calls)
}

func TestUpdateReservation_OnCancelled(t *testing.T) {
	svc, f, _ := newTestService(t, 10, 10)
	ctx := context.Background()

	res, err := svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       f.ID.String(),
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelReservation(ctx, res.ID.String())
	require.NoError(t, err)
	require.True(t, cancelled)

	updated, err := svc.UpdateReservation(ctx, res.ID.String(), &UpdateReservationRequest{
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane.roe@example.com",
	})
	require.NoError(t, err)

	// Contact details change; status and the seat pool do not.
	assert.Equal(t, "jane.roe@example.com", updated.PassengerEmail)
	assert.Equal(t, database.StatusCancelled, updated.Status)

	flight, err := svc.GetFlight(ctx, f.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 10, flight.AvailableSeats)
}

func TestUpdateReservation_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t, 10, 10)

	_, err := svc.UpdateReservation(context.Background(), "91b4d1b2-20c9-4f7e-bbd0-6b0a4a7e2f10", &UpdateReservationRequest{
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.ErrorIs(t, err, database.ErrNotFound)

	_, err = svc.UpdateReservation(context.Background(), "bogus", &UpdateReservationRequest{
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestCancelReservation_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(t, 10, 10)

	cancelled, err := svc.CancelReservation(context.Background(), "bogus")
	require.NoError(t, err)
	assert.False(t, cancelled)

	cancelled, err = svc.CancelReservation(context.Background(), "91b4d1b2-20c9-4f7e-bbd0-6b0a4a7e2f10")
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestDeleteReservation_UnknownID(t *testing.T) {
	svc, _, _ := newTestService(t, 10, 10)

	require.NoError(t, svc.DeleteReservation(context.Background(), "bogus"))
	require.NoError(t, svc.DeleteReservation(context.Background(), "91b4d1b2-20c9-4f7e-bbd0-6b0a4a7e2f10"))
}

func TestGetReservationsByEmail(t *testing.T) {
	svc, f, _ := newTestService(t, 10, 10)
	ctx := context.Background()

	_, err := svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       f.ID.String(),
		PassengerName:  "Jane Roe",
		PassengerEmail: "jane@example.com",
	})
	require.NoError(t, err)

	_, err = svc.BookReservation(ctx, &BookReservationRequest{
		FlightID:       f.ID.String(),
		PassengerName:  "John Roe",
		PassengerEmail: "john@example.com",
	})
	require.NoError(t, err)

	reservations, err := svc.GetReservationsByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "Jane Roe", reservations[0].PassengerName)
}
