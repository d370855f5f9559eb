package response

import "time"

type PrefillResponse struct {
	Date      string    `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CalendarEvent is one booking laid out for a calendar view.
type CalendarEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Resource   string    `json:"resource"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OwnerLabel string    `json:"owner_label"`
	IsOwner    bool      `json:"is_owner"`
}

type CalendarResponse struct {
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Events []CalendarEvent `json:"events"`
}
