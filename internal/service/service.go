package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skyline-air/reservation-service/internal/database"
	"github.com/skyline-air/reservation-service/internal/events"
)

// Store is the persistence boundary the service runs on. Both the pgx
// repository and the in-memory store satisfy it; either way the
// capacity-affecting methods are atomic units, so the service never
// has to compensate for partial state.
type Store interface {
	CreateFlight(ctx context.Context, f *database.Flight) error
	GetFlights(ctx context.Context) ([]database.Flight, error)
	GetFlightByID(ctx context.Context, id uuid.UUID) (*database.Flight, error)
	GetReservations(ctx context.Context) ([]database.Reservation, error)
	GetReservationByID(ctx context.Context, id uuid.UUID) (*database.Reservation, error)
	GetReservationsByEmail(ctx context.Context, email string) ([]database.Reservation, error)
	GetReservationsByFlight(ctx context.Context, flightID uuid.UUID) ([]database.Reservation, error)
	CreateReservation(ctx context.Context, res *database.Reservation) error
	UpdateReservation(ctx context.Context, id uuid.UUID, name, email, phone, seatNumber string) (*database.Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) error
}

// AvailabilityNotifier pushes seat-availability changes to connected
// clients. The websocket hub implements it.
type AvailabilityNotifier interface {
	BroadcastAvailability(flightID string, availableSeats int)
}

// BookReservationRequest carries the input of a booking
type BookReservationRequest struct {
	FlightID       string `json:"flightId"`
	PassengerName  string `json:"passengerName"`
	PassengerEmail string `json:"passengerEmail"`
	PassengerPhone string `json:"passengerPhone,omitempty"`
	SeatNumber     string `json:"seatNumber,omitempty"`
}

// UpdateReservationRequest carries the replaceable passenger fields
type UpdateReservationRequest struct {
	PassengerName  string `json:"passengerName"`
	PassengerEmail string `json:"passengerEmail"`
	PassengerPhone string `json:"passengerPhone,omitempty"`
	SeatNumber     string `json:"seatNumber,omitempty"`
}

// ReservationService defines the reservation operations
type ReservationService interface {
	GetFlights(ctx context.Context) ([]database.Flight, error)
	GetFlight(ctx context.Context, flightID string) (*database.Flight, error)
	GetReservations(ctx context.Context) ([]database.Reservation, error)
	GetReservation(ctx context.Context, reservationID string) (*database.Reservation, error)
	GetReservationsByEmail(ctx context.Context, email string) ([]database.Reservation, error)
	GetReservationsByFlight(ctx context.Context, flightID string) ([]database.Reservation, error)
	BookReservation(ctx context.Context, req *BookReservationRequest) (*database.Reservation, error)
	UpdateReservation(ctx context.Context, reservationID string, req *UpdateReservationRequest) (*database.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) (bool, error)
	DeleteReservation(ctx context.Context, reservationID string) error
}

// reservationServiceImpl implements ReservationService
type reservationServiceImpl struct {
	store     Store
	logger    *zap.Logger
	publisher events.Publisher
	notifier  AvailabilityNotifier
}

// NewReservationService creates a new ReservationService. notifier may
// be nil when no websocket hub is attached.
func NewReservationService(store Store, logger *zap.Logger, publisher events.Publisher, notifier AvailabilityNotifier) ReservationService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &reservationServiceImpl{
		store:     store,
		logger:    logger,
		publisher: publisher,
		notifier:  notifier,
	}
}

func (s *reservationServiceImpl) GetFlights(ctx context.Context) ([]database.Flight, error) {
	return s.store.GetFlights(ctx)
}

func (s *reservationServiceImpl) GetFlight(ctx context.Context, flightID string) (*database.Flight, error) {
	id, err := uuid.Parse(flightID)
	if err != nil {
		return nil, database.ErrFlightNotFound
	}
	return s.store.GetFlightByID(ctx, id)
}

func (s *reservationServiceImpl) GetReservations(ctx context.Context) ([]database.Reservation, error) {
	return s.store.GetReservations(ctx)
}

func (s *reservationServiceImpl) GetReservation(ctx context.Context, reservationID string) (*database.Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, database.ErrNotFound
	}
	return s.store.GetReservationByID(ctx, id)
}

func (s *reservationServiceImpl) GetReservationsByEmail(ctx context.Context, email string) ([]database.Reservation, error) {
	return s.store.GetReservationsByEmail(ctx, email)
}

func (s *reservationServiceImpl) GetReservationsByFlight(ctx context.Context, flightID string) ([]database.Reservation, error) {
	id, err := uuid.Parse(flightID)
	if err != nil {
		return nil, database.ErrFlightNotFound
	}
	return s.store.GetReservationsByFlight(ctx, id)
}

// BookReservation creates a CONFIRMED reservation, consuming one seat.
// The store makes the seat decrement and the insertion a single atomic
// unit; a failed decrement surfaces as ErrNoSeatsAvailable and leaves
// no record behind.
func (s *reservationServiceImpl) BookReservation(ctx context.Context, req *BookReservationRequest) (*database.Reservation, error) {
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		return nil, database.ErrFlightNotFound
	}

	res := &database.Reservation{
		FlightID:       flightID,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PassengerPhone: req.PassengerPhone,
		SeatNumber:     req.SeatNumber,
	}

	if err := s.store.CreateReservation(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info("reservation booked",
		zap.String("reservationId", res.ID.String()),
		zap.String("flightId", req.FlightID))
	s.notifyCapacityChange(ctx, events.TypeReservationCreated, res)

	return res, nil
}

func (s *reservationServiceImpl) UpdateReservation(ctx context.Context, reservationID string, req *UpdateReservationRequest) (*database.Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, database.ErrNotFound
	}
	return s.store.UpdateReservation(ctx, id, req.PassengerName, req.PassengerEmail, req.PassengerPhone, req.SeatNumber)
}

// CancelReservation transitions a reservation to CANCELLED. The seat
// goes back to the flight only when the reservation was still
// CONFIRMED; cancelling again is allowed but releases nothing.
func (s *reservationServiceImpl) CancelReservation(ctx context.Context, reservationID string) (bool, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return false, nil
	}

	cancelled, err := s.store.CancelReservation(ctx, id)
	if err != nil {
		return false, err
	}
	if cancelled {
		s.logger.Info("reservation cancelled", zap.String("reservationId", reservationID))
		if res, err := s.store.GetReservationByID(ctx, id); err == nil {
			s.notifyCapacityChange(ctx, events.TypeReservationCancelled, res)
		}
	}
	return cancelled, nil
}

// DeleteReservation removes a reservation, releasing its seat when it
// was still CONFIRMED. Unknown ids are a no-op.
func (s *reservationServiceImpl) DeleteReservation(ctx context.Context, reservationID string) error {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil
	}

	res, getErr := s.store.GetReservationByID(ctx, id)

	if err := s.store.DeleteReservation(ctx, id); err != nil {
		return err
	}

	if getErr == nil {
		s.logger.Info("reservation deleted", zap.String("reservationId", reservationID))
		s.notifyCapacityChange(ctx, events.TypeReservationDeleted, res)
	}
	return nil
}

// notifyCapacityChange publishes the lifecycle event and pushes the
// flight's committed availability to websocket clients. Both are
// best-effort: the state change has already committed.
func (s *reservationServiceImpl) notifyCapacityChange(ctx context.Context, eventType string, res *database.Reservation) {
	flight, err := s.store.GetFlightByID(ctx, res.FlightID)
	if err != nil {
		s.logger.Warn("failed to read flight after capacity change",
			zap.String("flightId", res.FlightID.String()), zap.Error(err))
		return
	}

	if s.notifier != nil {
		s.notifier.BroadcastAvailability(flight.ID.String(), flight.AvailableSeats)
	}

	event := events.Event{
		Type:           eventType,
		ReservationID:  res.ID.String(),
		FlightID:       flight.ID.String(),
		AvailableSeats: flight.AvailableSeats,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", eventType), zap.Error(err))
	}
}
