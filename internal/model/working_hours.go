package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WorkingHourTemplate is a recurring weekly availability rule for a
// technician. Times are wall-clock "HH:MM" strings interpreted in the
// organization's time zone. Several templates may exist for the same
// weekday; they are treated as a union of sub-intervals.
type WorkingHourTemplate struct {
	ID           int64        `json:"id"`
	TechnicianID int64        `json:"technician_id"`
	Weekday      time.Weekday `json:"weekday"` // 0 = Sunday, 6 = Saturday
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
}

// MinuteRange returns the template's [start, end) range as minutes of
// day, parsing the "HH:MM" clock strings.
func (t *WorkingHourTemplate) MinuteRange() (startMin, endMin int, err error) {
	startMin, err = ParseClock(t.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("parse start time: %w", err)
	}
	endMin, err = ParseClock(t.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("parse end time: %w", err)
	}
	if startMin >= endMin {
		return 0, 0, fmt.Errorf("start %q not before end %q", t.StartTime, t.EndTime)
	}
	return startMin, endMin, nil
}

// ParseClock converts a 24h "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
