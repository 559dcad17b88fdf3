package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is satisfied by both pgxpool.Pool and pgx.Tx, so ledger calls
// compose into whatever transaction the caller is running.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SeatLedger guards the seat-count pair of a flight. It exposes only
// bounded increment/decrement moves; there is deliberately no way to
// set available_seats directly. Each call is a single conditional
// UPDATE, so the bound check and the write happen in one statement and
// concurrent callers against the same flight serialize on the row.
type SeatLedger struct{}

// Decrement takes one seat from the flight. It returns false without
// mutating anything when the flight does not exist or has no seats
// left; the count never goes negative.
func (SeatLedger) Decrement(ctx context.Context, q execer, flightID uuid.UUID) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE flights
		SET available_seats = available_seats - 1, updated_at = NOW()
		WHERE id = $1 AND available_seats > 0
	`, flightID)
	if err != nil {
		return false, fmt.Errorf("failed to decrement seats: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Increment returns one seat to the flight. It returns false without
// mutating anything when the flight does not exist or is already at
// capacity; the count never exceeds total_seats.
func (SeatLedger) Increment(ctx context.Context, q execer, flightID uuid.UUID) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE flights
		SET available_seats = available_seats + 1, updated_at = NOW()
		WHERE id = $1 AND available_seats < total_seats
	`, flightID)
	if err != nil {
		return false, fmt.Errorf("failed to increment seats: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
