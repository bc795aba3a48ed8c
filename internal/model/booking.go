package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDone      BookingStatus = "done"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// Occupying reports whether a booking in this status blocks the
// technician's calendar. Done and canceled bookings stay in the store
// for history but free the interval.
func (s BookingStatus) Occupying() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	ID           uuid.UUID     `json:"id"`
	TechnicianID int64         `json:"technician_id"`
	RequestID    *uuid.UUID    `json:"request_id,omitempty"` // originating service request, optional
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Status       BookingStatus `json:"status"`
	CreatedBy    string        `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Interval returns the booking's occupied range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}
