package usecase

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"vehicle-booking/internal/admission"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/internal/dto/request"
	"vehicle-booking/internal/dto/response"
	"vehicle-booking/pkg/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type CalendarService interface {
	// Prefill returns the default working-day interval for a clicked date.
	Prefill(req *request.PrefillQuery) (*response.PrefillResponse, error)
	Events(ctx context.Context, principal utils.Principal, req *request.CalendarQuery) (*response.CalendarResponse, error)
}

type calendarService struct {
	repo      *repository.Repository
	config    *utils.Config
	resources map[string]string
	location  *time.Location
	log       *zap.Logger
	now       func() time.Time
}

func NewCalendarService(repo *repository.Repository, config *utils.Config, log *zap.Logger) CalendarService {
	log = log.With(zap.String("service", "calendar"))

	location, err := time.LoadLocation(config.App.Timezone)
	if err != nil {
		log.Warn("Unknown time zone, using UTC", zap.String("timezone", config.App.Timezone), zap.Error(err))
		location = time.UTC
	}

	resources := make(map[string]string, len(config.Booking.Resources))
	for _, r := range config.Booking.Resources {
		resources[r.Key] = r.Name
	}

	return &calendarService{
		repo:      repo,
		config:    config,
		resources: resources,
		location:  location,
		log:       log,
		now:       time.Now,
	}
}

func (s *calendarService) Prefill(req *request.PrefillQuery) (*response.PrefillResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError("invalid date", errs)
	}

	day, err := time.ParseInLocation(dateLayout, req.Date, s.location)
	if err != nil {
		return nil, fieldError("date", "Must match the layout 2006-01-02")
	}

	start, err := atClock(day, s.config.Booking.PrefillStart)
	if err != nil {
		return nil, fmt.Errorf("prefill start: %w", err)
	}
	end, err := atClock(day, s.config.Booking.PrefillEnd)
	if err != nil {
		return nil, fmt.Errorf("prefill end: %w", err)
	}

	interval, err := admission.NewInterval(start, end)
	if err != nil {
		return nil, fmt.Errorf("prefill window: %w", err)
	}

	return &response.PrefillResponse{
		Date:      req.Date,
		StartTime: interval.Start,
		EndTime:   interval.End,
	}, nil
}

func (s *calendarService) Events(ctx context.Context, principal utils.Principal, req *request.CalendarQuery) (*response.CalendarResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError("invalid calendar range", errs)
	}

	if req.Resource != "" {
		if _, ok := s.resources[req.Resource]; !ok {
			return nil, fieldError("resource", fmt.Sprintf("Unknown resource %q", req.Resource))
		}
	}

	window, err := s.window(req.From, req.To)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.ListActiveInRange(ctx, req.Resource, window.Start, window.End)
	if err != nil {
		s.log.Error("Failed to load calendar", zap.Error(err))
		return nil, unavailable("calendar events", err)
	}

	events := make([]response.CalendarEvent, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, response.CalendarEvent{
			ID:         b.ID.String(),
			Title:      fmt.Sprintf("%s: %s", s.resourceName(b.Resource), b.Purpose),
			Resource:   b.Resource,
			Start:      b.StartTime,
			End:        b.EndTime,
			OwnerLabel: b.OwnerLabel,
			IsOwner:    b.OwnerID == principal.OwnerID,
		})
	}

	return &response.CalendarResponse{
		From:   window.Start,
		To:     window.End,
		Events: events,
	}, nil
}

// window resolves the query to [from 00:00, day after to 00:00). Missing
// bounds default to the current month.
func (s *calendarService) window(from, to string) (admission.Interval, error) {
	now := s.now().In(s.location)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)

	start := monthStart
	if from != "" {
		parsed, err := time.ParseInLocation(dateLayout, from, s.location)
		if err != nil {
			return admission.Interval{}, fieldError("from", "Must match the layout 2006-01-02")
		}
		start = parsed
	}

	end := monthStart.AddDate(0, 1, 0)
	if to != "" {
		parsed, err := time.ParseInLocation(dateLayout, to, s.location)
		if err != nil {
			return admission.Interval{}, fieldError("to", "Must match the layout 2006-01-02")
		}
		end = parsed.AddDate(0, 0, 1)
	}

	window, err := admission.NewInterval(start, end)
	if err != nil {
		return admission.Interval{}, fieldError("to", "Must not be before from")
	}

	maxDays := s.config.Booking.MaxRangeDays
	if maxDays > 0 && window.End.After(window.Start.AddDate(0, 0, maxDays)) {
		return admission.Interval{}, fieldError("to", fmt.Sprintf("Range may span at most %d days", maxDays))
	}

	return window, nil
}

func (s *calendarService) resourceName(key string) string {
	if name, ok := s.resources[key]; ok {
		return name
	}
	return key
}

// atClock returns day at the HH:MM clock time in day's location.
func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
