package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skyline-air/reservation-service/internal/database"
	"github.com/skyline-air/reservation-service/internal/service"
)

// MockReservationService is a mock implementation of ReservationService
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) GetFlights(ctx context.Context) ([]database.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Flight), args.Error(1)
}

func (m *MockReservationService) GetFlight(ctx context.Context, flightID string) (*database.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Flight), args.Error(1)
}

func (m *MockReservationService) GetReservations(ctx context.Context) ([]database.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, reservationID string) (*database.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservationsByEmail(ctx context.Context, email string) ([]database.Reservation, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservationsByFlight(ctx context.Context, flightID string) ([]database.Reservation, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Reservation), args.Error(1)
}

func (m *MockReservationService) BookReservation(ctx context.Context, req *service.BookReservationRequest) (*database.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, reservationID string, req *service.UpdateReservationRequest) (*database.Reservation, error) {
	args := m.Called(ctx, reservationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, reservationID string) (bool, error) {
	args := m.Called(ctx, reservationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, reservationID string) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}
