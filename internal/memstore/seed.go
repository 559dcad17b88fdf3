package memstore

import (
	"context"
	"time"

	"github.com/skyline-air/reservation-service/internal/database"
)

// SeedSampleFlights loads a small set of flights so the service is
// usable without a database.
func (s *Store) SeedSampleFlights(ctx context.Context) ([]database.Flight, error) {
	now := time.Now()
	flights := []database.Flight{
		{
			FlightNumber:     "SK101",
			DepartureAirport: "JFK",
			ArrivalAirport:   "LAX",
			DepartureTime:    now.Add(24 * time.Hour),
			ArrivalTime:      now.Add(30 * time.Hour),
			AircraftType:     "B738",
			TotalSeats:       180,
			AvailableSeats:   180,
			Price:            150.00,
		},
		{
			FlightNumber:     "SK202",
			DepartureAirport: "ORD",
			ArrivalAirport:   "MIA",
			DepartureTime:    now.Add(48 * time.Hour),
			ArrivalTime:      now.Add(52 * time.Hour),
			AircraftType:     "A320",
			TotalSeats:       150,
			AvailableSeats:   150,
			Price:            200.00,
		},
		{
			FlightNumber:     "SK303",
			DepartureAirport: "SFO",
			ArrivalAirport:   "SEA",
			DepartureTime:    now.Add(12 * time.Hour),
			ArrivalTime:      now.Add(14 * time.Hour),
			AircraftType:     "E190",
			TotalSeats:       100,
			AvailableSeats:   100,
			Price:            120.00,
		},
	}

	for i := range flights {
		if err := s.CreateFlight(ctx, &flights[i]); err != nil {
			return nil, err
		}
	}
	return flights, nil
}
