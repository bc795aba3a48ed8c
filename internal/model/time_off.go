package model

import "time"

type TimeOffStatus string

const (
	TimeOffStatusPending  TimeOffStatus = "pending"
	TimeOffStatusApproved TimeOffStatus = "approved"
	TimeOffStatusRejected TimeOffStatus = "rejected"
)

// TimeOffWindow is an approved absence. TechnicianID nil means the
// window applies to every technician (company holiday). Created and
// approved by an external workflow; the engine only reads approved rows.
type TimeOffWindow struct {
	ID           int64         `json:"id"`
	TechnicianID *int64        `json:"technician_id"` // nil = global
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Status       TimeOffStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Interval returns the blocked range.
func (w *TimeOffWindow) Interval() Interval {
	return Interval{Start: w.StartTime, End: w.EndTime}
}

// AppliesTo reports whether the window blocks the given technician.
func (w *TimeOffWindow) AppliesTo(technicianID int64) bool {
	return w.TechnicianID == nil || *w.TechnicianID == technicianID
}
