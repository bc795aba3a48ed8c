package model

import "time"

// UnavailableReason explains why a slot is blocked.
type UnavailableReason string

const (
	ReasonBooked     UnavailableReason = "booked"
	ReasonTimeOff    UnavailableReason = "time_off"
	ReasonOutOfHours UnavailableReason = "out_of_hours"
)

// Slot is one bucket of an availability computation. Slots are ephemeral:
// they are recomputed on every query and never persisted, because the
// underlying bookings and time-off can change between requests.
type Slot struct {
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Available bool              `json:"available"`
	Reason    UnavailableReason `json:"reason,omitempty"` // set only when unavailable
}

// Interval returns the slot's range. The final slot of a window may be
// shorter than the requested granularity; its End carries that.
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// Suggestion is a bookable candidate of exactly the requested duration,
// assembled from contiguous available slots.
type Suggestion struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
