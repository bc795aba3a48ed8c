package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, technician_id, request_id, start_time, end_time, status, created_by, created_at, updated_at`

// InsertBooking persists a new booking and fills in the generated id and
// timestamps. The bookings table carries a range-exclusion constraint on
// occupying statuses; a violation surfaces as a 23P01 error.
func (r *BookingRepository) InsertBooking(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (technician_id, request_id, start_time, end_time, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.TechnicianID,
		booking.RequestID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.CreatedBy,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// GetBooking returns the booking or nil when it does not exist.
func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// ListOccupyingBookings returns pending and confirmed bookings for the
// technician overlapping [from, to).
func (r *BookingRepository) ListOccupyingBookings(ctx context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE technician_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	return r.listBookings(ctx, query, technicianID, from, to)
}

// ListBookings returns all bookings for the technician overlapping
// [from, to), regardless of status.
func (r *BookingRepository) ListBookings(ctx context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE technician_id = $1
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
	`

	return r.listBookings(ctx, query, technicianID, from, to)
}

// UpdateBooking writes the booking's mutable fields back by id.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET technician_id = $2, start_time = $3, end_time = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.ID,
		booking.TechnicianID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
	).Scan(&booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	return nil
}

// DeleteBooking removes the booking row.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete booking: %w", ErrNotFound)
	}

	return nil
}

func (r *BookingRepository) listBookings(ctx context.Context, query string, technicianID int64, from, to time.Time) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, technicianID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(
			&b.ID,
			&b.TechnicianID,
			&b.RequestID,
			&b.StartTime,
			&b.EndTime,
			&b.Status,
			&b.CreatedBy,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list bookings: %w", rows.Err())
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.TechnicianID,
		&b.RequestID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.CreatedBy,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
