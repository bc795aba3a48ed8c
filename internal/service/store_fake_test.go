package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"github.com/fieldops/scheduler/internal/repository"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store. It enforces the same range-exclusion
// rule the real schema does, so the write path can lose races the same
// way Postgres makes it lose them. With staleReads set, the read side
// pretends to see nothing, which forces the booking manager past its
// guard and into the constraint - the deterministic version of the
// check-then-act race.
type fakeStore struct {
	mu         sync.Mutex
	templates  []model.WorkingHourTemplate
	timeOff    []model.TimeOffWindow
	bookings   map[uuid.UUID]model.Booking
	staleReads bool
	failWith   error
	now        time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[uuid.UUID]model.Booking),
		now:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) ListWorkingHours(_ context.Context, technicianID int64) ([]model.WorkingHourTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	var out []model.WorkingHourTemplate
	for _, t := range f.templates {
		if t.TechnicianID == technicianID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListApprovedTimeOff(_ context.Context, technicianID int64, from, to time.Time) ([]model.TimeOffWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	window := model.Interval{Start: from, End: to}
	var out []model.TimeOffWindow
	for _, w := range f.timeOff {
		if w.Status == model.TimeOffStatusApproved && w.AppliesTo(technicianID) && window.Overlaps(w.Interval()) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOccupyingBookings(_ context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.staleReads {
		return nil, nil
	}

	window := model.Interval{Start: from, End: to}
	var out []model.Booking
	for _, b := range f.bookings {
		if b.TechnicianID == technicianID && b.Status.Occupying() && window.Overlaps(b.Interval()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBookings(_ context.Context, technicianID int64, from, to time.Time) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	window := model.Interval{Start: from, End: to}
	var out []model.Booking
	for _, b := range f.bookings {
		if b.TechnicianID == technicianID && window.Overlaps(b.Interval()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetBooking(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeStore) InsertBooking(_ context.Context, booking *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	if err := f.checkExclusion(booking, nil); err != nil {
		return err
	}

	booking.ID = uuid.New()
	booking.CreatedAt = f.now
	booking.UpdatedAt = f.now
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, booking *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	if _, ok := f.bookings[booking.ID]; !ok {
		return fmt.Errorf("update booking: %w", repository.ErrNotFound)
	}
	if err := f.checkExclusion(booking, &booking.ID); err != nil {
		return err
	}

	booking.UpdatedAt = f.now.Add(time.Second)
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	if _, ok := f.bookings[id]; !ok {
		return fmt.Errorf("delete booking: %w", repository.ErrNotFound)
	}
	delete(f.bookings, id)
	return nil
}

// checkExclusion mirrors the bookings_no_overlap constraint: no two
// occupying rows for one technician may overlap.
func (f *fakeStore) checkExclusion(candidate *model.Booking, exclude *uuid.UUID) error {
	if !candidate.Status.Occupying() {
		return nil
	}
	for id, existing := range f.bookings {
		if exclude != nil && id == *exclude {
			continue
		}
		if existing.TechnicianID != candidate.TechnicianID || !existing.Status.Occupying() {
			continue
		}
		if candidate.Interval().Overlaps(existing.Interval()) {
			return fmt.Errorf("insert booking: %w", repository.ErrExclusion)
		}
	}
	return nil
}

func (f *fakeStore) occupying(technicianID int64) []model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Booking
	for _, b := range f.bookings {
		if b.TechnicianID == technicianID && b.Status.Occupying() {
			out = append(out, b)
		}
	}
	return out
}
