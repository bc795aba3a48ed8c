package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/scheduler/internal/model"
	"go.uber.org/zap"
)

const DefaultSlotMinutes = 30

// AvailabilityRequest is the typed parameter set for one availability
// computation. SlotMinutes falls back to DefaultSlotMinutes when zero.
type AvailabilityRequest struct {
	TechnicianID    int64
	From            time.Time
	To              time.Time
	SlotMinutes     int
	TravelBufferMin int
}

// AvailabilityService computes slot sequences for a technician from the
// external store's templates, time-off and bookings. It is stateless:
// every call re-reads the store and has no side effects.
type AvailabilityService struct {
	store  ScheduleStore
	loc    *time.Location
	logger *zap.Logger
}

func NewAvailabilityService(store ScheduleStore, loc *time.Location, logger *zap.Logger) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{
		store:  store,
		loc:    loc,
		logger: logger,
	}
}

// busyWindow is a blocked interval with the reason it blocks.
type busyWindow struct {
	interval model.Interval
	reason   model.UnavailableReason
}

// ComputeAvailability walks [from, to) in steps of SlotMinutes and tags
// each slot available or unavailable with a reason. The final slot is
// clamped to the window end, so a window that is not an exact multiple
// of the granularity still ends with a shorter, explicit slot.
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, req AvailabilityRequest) ([]model.Slot, error) {
	const op = "availability.compute"

	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = DefaultSlotMinutes
	}
	if slotMinutes < 0 {
		return nil, newError(KindInvalidInput, op, fmt.Sprintf("slot minutes must be positive, got %d", slotMinutes))
	}
	if req.TravelBufferMin < 0 {
		return nil, newError(KindInvalidInput, op, fmt.Sprintf("travel buffer must not be negative, got %d", req.TravelBufferMin))
	}
	if !req.From.Before(req.To) {
		return nil, newError(KindInvalidInput, op, "window start must be before window end")
	}

	templates, err := s.store.ListWorkingHours(ctx, req.TechnicianID)
	if err != nil {
		return nil, wrapError(KindUnavailable, op, "list working hours", err)
	}
	byWeekday, err := s.indexTemplates(req.TechnicianID, templates)
	if err != nil {
		return nil, wrapError(KindInvalidInput, op, "invalid working hour template", err)
	}

	busy, err := s.fetchBusyWindows(ctx, op, req)
	if err != nil {
		return nil, err
	}

	step := time.Duration(slotMinutes) * time.Minute
	slots := make([]model.Slot, 0, int(req.To.Sub(req.From)/step)+1)
	for start := req.From; start.Before(req.To); start = start.Add(step) {
		end := start.Add(step)
		if end.After(req.To) {
			end = req.To
		}
		slots = append(slots, s.classify(model.Interval{Start: start, End: end}, byWeekday, busy))
	}
	return slots, nil
}

// fetchBusyWindows collects bookings (with the trailing travel buffer)
// and approved time-off as blocked intervals. Bookings come first so a
// slot blocked by both is reported as booked.
func (s *AvailabilityService) fetchBusyWindows(ctx context.Context, op string, req AvailabilityRequest) ([]busyWindow, error) {
	// Widen the booking fetch so a booking ending just before the window
	// still blocks it through its travel buffer.
	buffer := time.Duration(req.TravelBufferMin) * time.Minute
	bookings, err := s.store.ListOccupyingBookings(ctx, req.TechnicianID, req.From.Add(-buffer), req.To)
	if err != nil {
		return nil, wrapError(KindUnavailable, op, "list bookings", err)
	}
	timeOff, err := s.store.ListApprovedTimeOff(ctx, req.TechnicianID, req.From, req.To)
	if err != nil {
		return nil, wrapError(KindUnavailable, op, "list time off", err)
	}

	busy := make([]busyWindow, 0, len(bookings)+len(timeOff))
	for _, b := range bookings {
		// Travel buffer extends the booking's tail only; arriving at the
		// next job is what costs time, not being arrived at.
		busy = append(busy, busyWindow{
			interval: model.Interval{Start: b.StartTime, End: b.EndTime.Add(buffer)},
			reason:   model.ReasonBooked,
		})
	}
	for _, w := range timeOff {
		if !w.AppliesTo(req.TechnicianID) {
			continue
		}
		busy = append(busy, busyWindow{interval: w.Interval(), reason: model.ReasonTimeOff})
	}
	return busy, nil
}

type minuteRange struct {
	startMin int
	endMin   int
}

// indexTemplates groups active templates by weekday as minute-of-day
// ranges. Overlapping templates for the same weekday still behave as a
// union, but they indicate bad administrative data, so they are logged.
func (s *AvailabilityService) indexTemplates(technicianID int64, templates []model.WorkingHourTemplate) (map[time.Weekday][]minuteRange, error) {
	byWeekday := make(map[time.Weekday][]minuteRange)
	for i := range templates {
		t := &templates[i]
		if !t.IsActive {
			continue
		}
		startMin, endMin, err := t.MinuteRange()
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", t.ID, err)
		}
		r := minuteRange{startMin: startMin, endMin: endMin}
		for _, existing := range byWeekday[t.Weekday] {
			if r.startMin < existing.endMin && r.endMin > existing.startMin {
				s.logger.Warn("Overlapping working hour templates for weekday",
					zap.Int64("technician_id", technicianID),
					zap.Int("weekday", int(t.Weekday)),
					zap.String("start", t.StartTime),
					zap.String("end", t.EndTime),
				)
				break
			}
		}
		byWeekday[t.Weekday] = append(byWeekday[t.Weekday], r)
	}
	return byWeekday, nil
}

// classify tags a single slot. Out-of-hours wins over busy windows; among
// busy windows the first overlap wins.
func (s *AvailabilityService) classify(slot model.Interval, byWeekday map[time.Weekday][]minuteRange, busy []busyWindow) model.Slot {
	local := slot.Start.In(s.loc)
	minuteOfDay := local.Hour()*60 + local.Minute()

	inTemplate := false
	for _, r := range byWeekday[local.Weekday()] {
		if minuteOfDay >= r.startMin && minuteOfDay < r.endMin {
			inTemplate = true
			break
		}
	}
	if !inTemplate {
		return model.Slot{Start: slot.Start, End: slot.End, Reason: model.ReasonOutOfHours}
	}

	for _, w := range busy {
		if slot.Overlaps(w.interval) {
			return model.Slot{Start: slot.Start, End: slot.End, Reason: w.reason}
		}
	}
	return model.Slot{Start: slot.Start, End: slot.End, Available: true}
}
