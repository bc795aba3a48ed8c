package service

import (
	"context"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"github.com/fieldops/scheduler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingRequest carries everything needed to occupy an interval.
type CreateBookingRequest struct {
	TechnicianID int64
	Start        time.Time
	End          time.Time
	RequestID    *uuid.UUID
	CreatedBy    string
}

// UpdateBookingRequest reschedules or reassigns an existing booking.
// Nil fields keep the current value.
type UpdateBookingRequest struct {
	Start        *time.Time
	End          *time.Time
	TechnicianID *int64
}

// BookingService creates and mutates bookings. Every write passes the
// overlap guard first; the store's exclusion constraint remains the
// authority, and its rejections are remapped to the same conflict kind
// so callers see one failure mode regardless of which layer lost the race.
type BookingService struct {
	store  Store
	logger *zap.Logger
}

func NewBookingService(store Store, logger *zap.Logger) *BookingService {
	return &BookingService{store: store, logger: logger}
}

// HasOverlap reports whether [start, end) intersects any occupying
// booking or approved time-off for the technician. exclude, when set,
// removes the booking's own row from the comparison set (used on update).
// This is a time-of-check guard only: two concurrent callers can both see
// false before either writes.
func (s *BookingService) HasOverlap(ctx context.Context, technicianID int64, start, end time.Time, exclude *uuid.UUID) (bool, error) {
	const op = "booking.has_overlap"

	proposed := model.Interval{Start: start, End: end}
	if !proposed.Valid() {
		return false, newError(KindInvalidInput, op, "start must be before end")
	}

	bookings, err := s.store.ListOccupyingBookings(ctx, technicianID, start, end)
	if err != nil {
		return false, wrapError(KindUnavailable, op, "list bookings", err)
	}
	for i := range bookings {
		b := &bookings[i]
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if proposed.Overlaps(b.Interval()) {
			return true, nil
		}
	}

	timeOff, err := s.store.ListApprovedTimeOff(ctx, technicianID, start, end)
	if err != nil {
		return false, wrapError(KindUnavailable, op, "list time off", err)
	}
	for i := range timeOff {
		w := &timeOff[i]
		if w.AppliesTo(technicianID) && proposed.Overlaps(w.Interval()) {
			return true, nil
		}
	}
	return false, nil
}

// CreateBooking validates the interval, runs the overlap guard and
// persists a pending booking.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	const op = "booking.create"

	if !req.Start.Before(req.End) {
		return nil, newError(KindInvalidInput, op, "start must be before end")
	}

	busy, err := s.HasOverlap(ctx, req.TechnicianID, req.Start, req.End, nil)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, newError(KindConflict, op, "technician not available in that window")
	}

	booking := &model.Booking{
		TechnicianID: req.TechnicianID,
		RequestID:    req.RequestID,
		StartTime:    req.Start,
		EndTime:      req.End,
		Status:       model.BookingStatusPending,
		CreatedBy:    req.CreatedBy,
	}
	if err := s.store.InsertBooking(ctx, booking); err != nil {
		return nil, s.mapWriteError(op, err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.Int64("technician_id", booking.TechnicianID),
		zap.Time("start", booking.StartTime),
		zap.Time("end", booking.EndTime),
	)
	return booking, nil
}

// UpdateBooking re-validates the proposed interval and technician,
// excluding the booking's own row from the overlap comparison.
func (s *BookingService) UpdateBooking(ctx context.Context, id uuid.UUID, req UpdateBookingRequest) (*model.Booking, error) {
	const op = "booking.update"

	booking, err := s.getBooking(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if req.Start != nil {
		booking.StartTime = *req.Start
	}
	if req.End != nil {
		booking.EndTime = *req.End
	}
	if req.TechnicianID != nil {
		booking.TechnicianID = *req.TechnicianID
	}
	if !booking.StartTime.Before(booking.EndTime) {
		return nil, newError(KindInvalidInput, op, "start must be before end")
	}

	if booking.Status.Occupying() {
		busy, err := s.HasOverlap(ctx, booking.TechnicianID, booking.StartTime, booking.EndTime, &id)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, newError(KindConflict, op, "technician not available in that window")
		}
	}

	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, s.mapWriteError(op, err)
	}

	s.logger.Info("Booking updated",
		zap.String("booking_id", id.String()),
		zap.Int64("technician_id", booking.TechnicianID),
		zap.Time("start", booking.StartTime),
		zap.Time("end", booking.EndTime),
	)
	return booking, nil
}

// DeleteBooking removes a booking unconditionally. Freeing occupancy
// needs no overlap check.
func (s *BookingService) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	const op = "booking.delete"

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return s.mapWriteError(op, err)
	}

	s.logger.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

// ConfirmBooking moves pending to confirmed.
func (s *BookingService) ConfirmBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.transition(ctx, "booking.confirm", id, model.BookingStatusConfirmed, model.BookingStatusPending)
}

// CompleteBooking moves confirmed to done. The interval is freed for
// future bookings while the record stays for history.
func (s *BookingService) CompleteBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.transition(ctx, "booking.complete", id, model.BookingStatusDone, model.BookingStatusConfirmed)
}

// CancelBooking cancels a pending or confirmed booking.
func (s *BookingService) CancelBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.transition(ctx, "booking.cancel", id, model.BookingStatusCanceled,
		model.BookingStatusPending, model.BookingStatusConfirmed)
}

// GetBooking fetches a booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.getBooking(ctx, "booking.get", id)
}

// ListBookings returns the technician's bookings overlapping [from, to),
// any status.
func (s *BookingService) ListBookings(ctx context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error) {
	const op = "booking.list"

	if !from.Before(to) {
		return nil, newError(KindInvalidInput, op, "window start must be before window end")
	}
	bookings, err := s.store.ListBookings(ctx, technicianID, from, to)
	if err != nil {
		return nil, wrapError(KindUnavailable, op, "list bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) transition(ctx context.Context, op string, id uuid.UUID, to model.BookingStatus, allowedFrom ...model.BookingStatus) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, op, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, from := range allowedFrom {
		if booking.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, newError(KindConflict, op, "booking is "+string(booking.Status))
	}

	booking.Status = to
	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, s.mapWriteError(op, err)
	}

	s.logger.Info("Booking status changed",
		zap.String("booking_id", id.String()),
		zap.String("status", string(to)),
	)
	return booking, nil
}

func (s *BookingService) getBooking(ctx context.Context, op string, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(KindNotFound, op, "booking does not exist")
		}
		return nil, wrapError(KindUnavailable, op, "get booking", err)
	}
	if booking == nil {
		return nil, newError(KindNotFound, op, "booking does not exist")
	}
	return booking, nil
}

// mapWriteError translates store failures into the engine taxonomy. An
// exclusion violation means this writer lost the race the guard could
// not see; it must look identical to a guard-detected conflict.
func (s *BookingService) mapWriteError(op string, err error) error {
	switch {
	case repository.IsExclusionViolation(err):
		return wrapError(KindConflict, op, "technician not available in that window", err)
	case repository.IsNotFound(err):
		return newError(KindNotFound, op, "booking does not exist")
	default:
		return wrapError(KindUnavailable, op, "store write failed", err)
	}
}
