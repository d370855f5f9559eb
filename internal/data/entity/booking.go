package entity

import (
	"time"
	"vehicle-booking/internal/admission"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	BaseNoDelete
	Resource    string        `db:"resource"`
	OwnerID     uuid.UUID     `db:"owner_id"`
	OwnerLabel  string        `db:"owner_label"`
	StartTime   time.Time     `db:"start_time"`
	EndTime     time.Time     `db:"end_time"`
	Purpose     string        `db:"purpose"`
	Notes       *string       `db:"notes"`
	Status      BookingStatus `db:"status"`
	CancelledAt *time.Time    `db:"cancelled_at"`
}

// Span satisfies admission.Reservation.
func (b Booking) Span() admission.Interval {
	return admission.Interval{Start: b.StartTime, End: b.EndTime}
}

func (b Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}
