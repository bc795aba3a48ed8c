package service

import (
	"context"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"github.com/google/uuid"
)

// ScheduleStore is the read side of the external store: everything the
// availability builder and the overlap guard need. Implementations must
// filter as documented; the engine re-checks overlap with the shared
// predicate but relies on the store for status filtering.
type ScheduleStore interface {
	// ListWorkingHours returns the technician's active weekly templates.
	ListWorkingHours(ctx context.Context, technicianID int64) ([]model.WorkingHourTemplate, error)
	// ListApprovedTimeOff returns approved windows overlapping [from, to)
	// that are either technician-specific or global.
	ListApprovedTimeOff(ctx context.Context, technicianID int64, from, to time.Time) ([]model.TimeOffWindow, error)
	// ListOccupyingBookings returns pending/confirmed bookings
	// overlapping [from, to) for the technician.
	ListOccupyingBookings(ctx context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error)
}

// BookingStore is the write side. Insert and Update must surface the
// store's range-exclusion violation through ErrExclusion and a missing
// row through ErrNoRows semantics; the booking manager remaps both.
type BookingStore interface {
	GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListBookings(ctx context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

// Store combines both sides; the pgx repository set satisfies it.
type Store interface {
	ScheduleStore
	BookingStore
}
