package request

// CalendarQuery dates use YYYY-MM-DD in the service time zone; To is inclusive.
type CalendarQuery struct {
	From     string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Resource string `json:"resource"`
}

type PrefillQuery struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}
