package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrFlightNotFound   = errors.New("flight not found")
	ErrNoSeatsAvailable = errors.New("no seats available")
)

//go:embed schema.sql
var schema string

// Repository handles all database operations. Every capacity-affecting
// operation runs the seat-ledger call and the reservation mutation
// inside a single transaction, so readers only ever observe the two in
// agreement.
type Repository struct {
	pool   *pgxpool.Pool
	ledger SeatLedger
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// --- Flight Operations ---

const flightColumns = `id, flight_number, departure_airport, arrival_airport,
	departure_time, arrival_time, aircraft_type, total_seats, available_seats,
	price, created_at, updated_at`

func scanFlight(row pgx.Row, f *Flight) error {
	return row.Scan(
		&f.ID, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport,
		&f.DepartureTime, &f.ArrivalTime, &f.AircraftType, &f.TotalSeats,
		&f.AvailableSeats, &f.Price, &f.CreatedAt, &f.UpdatedAt,
	)
}

// GetFlights returns all flights ordered by departure time
func (r *Repository) GetFlights(ctx context.Context) ([]Flight, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		ORDER BY departure_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	var flights []Flight
	for rows.Next() {
		var f Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// GetFlightByID returns a flight by ID
func (r *Repository) GetFlightByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	var f Flight
	err := scanFlight(r.pool.QueryRow(ctx, `
		SELECT `+flightColumns+`
		FROM flights
		WHERE id = $1
	`, id), &f)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	return &f, nil
}

// CreateFlight inserts a new flight with all seats available.
func (r *Repository) CreateFlight(ctx context.Context, f *Flight) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO flights (id, flight_number, departure_airport, arrival_airport,
			departure_time, arrival_time, aircraft_type, total_seats, available_seats, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, f.ID, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport,
		f.DepartureTime, f.ArrivalTime, f.AircraftType, f.TotalSeats,
		f.AvailableSeats, f.Price,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

// --- Reservation Operations ---

const reservationColumns = `id, flight_id, passenger_name, passenger_email,
	passenger_phone, seat_number, status, created_at`

func scanReservation(row pgx.Row, res *Reservation) error {
	return row.Scan(
		&res.ID, &res.FlightID, &res.PassengerName, &res.PassengerEmail,
		&res.PassengerPhone, &res.SeatNumber, &res.Status, &res.CreatedAt,
	)
}

func (r *Repository) queryReservations(ctx context.Context, query string, args ...any) ([]Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var res Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// GetReservations returns all reservations
func (r *Repository) GetReservations(ctx context.Context) ([]Reservation, error) {
	return r.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		ORDER BY created_at ASC
	`)
}

// GetReservationByID returns a reservation by ID
func (r *Repository) GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var res Reservation
	err := scanReservation(r.pool.QueryRow(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE id = $1
	`, id), &res)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &res, nil
}

// GetReservationsByEmail returns all reservations for a passenger email
func (r *Repository) GetReservationsByEmail(ctx context.Context, email string) ([]Reservation, error) {
	return r.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE passenger_email = $1
		ORDER BY created_at ASC
	`, email)
}

// GetReservationsByFlight returns all reservations for a flight
func (r *Repository) GetReservationsByFlight(ctx context.Context, flightID uuid.UUID) ([]Reservation, error) {
	return r.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE flight_id = $1
		ORDER BY created_at ASC
	`, flightID)
}

// CreateReservation books a seat: it verifies the flight exists, takes
// one seat through the ledger and inserts the CONFIRMED reservation,
// all in one transaction. A reservation row is never visible without
// its seat decrement, and vice versa.
func (r *Repository) CreateReservation(ctx context.Context, res *Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id = $1)`, res.FlightID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check flight: %w", err)
	}
	if !exists {
		return ErrFlightNotFound
	}

	ok, err := r.ledger.Decrement(ctx, tx, res.FlightID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSeatsAvailable
	}

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO reservations (id, flight_id, passenger_name, passenger_email,
			passenger_phone, seat_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING status, created_at
	`, res.ID, res.FlightID, res.PassengerName, res.PassengerEmail,
		res.PassengerPhone, res.SeatNumber, StatusConfirmed,
	).Scan(&res.Status, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateReservation replaces the passenger fields of a reservation.
// Flight, status and creation time are untouched and there is no
// seat-ledger effect, whatever the current status is.
func (r *Repository) UpdateReservation(ctx context.Context, id uuid.UUID, name, email, phone, seatNumber string) (*Reservation, error) {
	var res Reservation
	err := scanReservation(r.pool.QueryRow(ctx, `
		UPDATE reservations
		SET passenger_name = $2, passenger_email = $3, passenger_phone = $4, seat_number = $5
		WHERE id = $1
		RETURNING `+reservationColumns+`
	`, id, name, email, phone, seatNumber), &res)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return &res, nil
}

// CancelReservation marks a reservation CANCELLED and returns its seat
// to the flight. The increment only happens while the current status
// is CONFIRMED, so cancelling twice releases the seat once. Returns
// false when the reservation does not exist.
func (r *Repository) CancelReservation(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var flightID uuid.UUID
	var status ReservationStatus
	err = tx.QueryRow(ctx, `
		SELECT flight_id, status FROM reservations WHERE id = $1 FOR UPDATE
	`, id).Scan(&flightID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get reservation: %w", err)
	}

	if status == StatusConfirmed {
		// Best-effort: a full flight means the seat was already back in
		// the pool, which is not a reason to fail the cancellation.
		if _, err := r.ledger.Increment(ctx, tx, flightID); err != nil {
			return false, err
		}
	}

	_, err = tx.Exec(ctx, `UPDATE reservations SET status = $2 WHERE id = $1`, id, StatusCancelled)
	if err != nil {
		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return true, nil
}

// DeleteReservation removes a reservation, returning its seat first if
// it was still CONFIRMED. Deleting an unknown id is a no-op.
func (r *Repository) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var flightID uuid.UUID
	var status ReservationStatus
	err = tx.QueryRow(ctx, `
		SELECT flight_id, status FROM reservations WHERE id = $1 FOR UPDATE
	`, id).Scan(&flightID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if status == StatusConfirmed {
		if _, err := r.ledger.Increment(ctx, tx, flightID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	return tx.Commit(ctx)
}
