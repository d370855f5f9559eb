package request

import "time"

type CreateBookingRequest struct {
	Resource  string    `json:"resource" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Purpose   string    `json:"purpose" validate:"required,max=200"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CheckAvailabilityRequest previews admission without creating anything.
type CheckAvailabilityRequest struct {
	Resource  string    `json:"resource" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}
