package response

import (
	"time"

	"vehicle-booking/internal/data/entity"

	"github.com/google/uuid"
)

type ResourceResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID          string               `json:"id"`
	Resource    string               `json:"resource"`
	OwnerID     string               `json:"owner_id"`
	OwnerLabel  string               `json:"owner_label"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	Purpose     string               `json:"purpose"`
	Notes       *string              `json:"notes,omitempty"`
	Status      entity.BookingStatus `json:"status"`
	IsOwner     bool                 `json:"is_owner"`
	CreatedAt   time.Time            `json:"created_at"`
	CancelledAt *time.Time           `json:"cancelled_at,omitempty"`
}

type AvailabilityResponse struct {
	Admitted  bool              `json:"admitted"`
	Conflicts []BookingResponse `json:"conflicts"`
}

// ConflictErrors is the errors payload of a 409 response.
type ConflictErrors struct {
	Conflicts []BookingResponse `json:"conflicts"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking, viewer uuid.UUID) BookingResponse {
	return BookingResponse{
		ID:          booking.ID.String(),
		Resource:    booking.Resource,
		OwnerID:     booking.OwnerID.String(),
		OwnerLabel:  booking.OwnerLabel,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Purpose:     booking.Purpose,
		Notes:       booking.Notes,
		Status:      booking.Status,
		IsOwner:     booking.OwnerID == viewer,
		CreatedAt:   booking.CreatedAt,
		CancelledAt: booking.CancelledAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking, viewer uuid.UUID) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b, viewer))
	}
	return out
}
