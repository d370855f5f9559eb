package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle-booking/internal/admission"
	"vehicle-booking/internal/data/entity"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/internal/dto/request"
	"vehicle-booking/internal/dto/response"
	"vehicle-booking/pkg/events"
	"vehicle-booking/pkg/metrics"
	"vehicle-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

type BookingService interface {
	ListResources() []response.ResourceResponse
	ListActive(ctx context.Context, principal utils.Principal, resource string) ([]response.BookingResponse, error)
	ListUpcoming(ctx context.Context, principal utils.Principal, resource string) ([]response.BookingResponse, error)
	GetBooking(ctx context.Context, principal utils.Principal, bookingID string) (*response.BookingResponse, error)

	// CheckAvailability runs admission without writing. The answer can be
	// stale by the time CreateBooking runs; only CreateBooking is binding.
	CheckAvailability(ctx context.Context, principal utils.Principal, req *request.CheckAvailabilityRequest) (*response.AvailabilityResponse, error)
	CreateBooking(ctx context.Context, principal utils.Principal, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, principal utils.Principal, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	resources map[string]utils.ResourceConfig
	config    *utils.Config
	metrics   *metrics.Metrics
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	publisher events.Publisher,
	log *zap.Logger,
) BookingService {
	resources := make(map[string]utils.ResourceConfig, len(config.Booking.Resources))
	for _, r := range config.Booking.Resources {
		resources[r.Key] = r
	}

	return &bookingService{
		repo:      repo,
		resources: resources,
		config:    config,
		metrics:   m,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

func (s *bookingService) ListResources() []response.ResourceResponse {
	out := make([]response.ResourceResponse, 0, len(s.config.Booking.Resources))
	for _, r := range s.config.Booking.Resources {
		out = append(out, response.ResourceResponse{Key: r.Key, Name: r.Name})
	}
	return out
}

func (s *bookingService) ListActive(ctx context.Context, principal utils.Principal, resource string) ([]response.BookingResponse, error) {
	if err := s.requireResource(resource); err != nil {
		return nil, err
	}

	bookings, err := s.repo.Booking.ListActive(ctx, resource)
	if err != nil {
		return nil, s.storeFault("list_active", err)
	}

	return response.BookingsToResponse(bookings, principal.OwnerID), nil
}

func (s *bookingService) ListUpcoming(ctx context.Context, principal utils.Principal, resource string) ([]response.BookingResponse, error) {
	if resource != "" {
		if err := s.requireResource(resource); err != nil {
			return nil, err
		}
	}

	bookings, err := s.repo.Booking.ListUpcoming(ctx, resource, s.now())
	if err != nil {
		return nil, s.storeFault("list_upcoming", err)
	}

	return response.BookingsToResponse(bookings, principal.OwnerID), nil
}

func (s *bookingService) GetBooking(ctx context.Context, principal utils.Principal, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, principal.OwnerID)
	return &resp, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, principal utils.Principal, req *request.CheckAvailabilityRequest) (*response.AvailabilityResponse, error) {
	candidate, err := s.candidate(req.Resource, req.StartTime, req.EndTime, req)
	if err != nil {
		s.metrics.AdmissionChecks.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	existing, err := s.repo.Booking.ListActive(ctx, candidate.Resource)
	if err != nil {
		return nil, s.storeFault("check_availability", err)
	}

	result, err := admission.Check(candidate, existing)
	if err != nil {
		return nil, fieldError("end_time", err.Error())
	}
	s.recordOutcome(result.Admitted)

	return &response.AvailabilityResponse{
		Admitted:  result.Admitted,
		Conflicts: response.BookingsToResponse(result.Conflicts, principal.OwnerID),
	}, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, principal utils.Principal, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	candidate, err := s.candidate(req.Resource, req.StartTime, req.EndTime, req)
	if err != nil {
		s.metrics.AdmissionChecks.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		return nil, fieldError("purpose", "This field is required")
	}

	var notes *string
	if req.Notes != nil {
		if trimmed := strings.TrimSpace(*req.Notes); trimmed != "" {
			notes = &trimmed
		}
	}

	now := s.now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Resource:   candidate.Resource,
		OwnerID:    principal.OwnerID,
		OwnerLabel: principal.Label,
		StartTime:  candidate.Interval.Start,
		EndTime:    candidate.Interval.End,
		Purpose:    purpose,
		Notes:      notes,
		Status:     entity.BookingStatusActive,
	}

	// the store re-runs admission atomically with the insert
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		var conflictErr *repository.ConflictError
		if errors.As(err, &conflictErr) {
			s.recordOutcome(false)
			s.log.Info("Booking rejected",
				zap.String("resource", booking.Resource),
				zap.Int("conflicts", len(conflictErr.Conflicts)))
			return nil, &ConflictError{Conflicts: conflictErr.Conflicts}
		}
		return nil, s.storeFault("create_booking", err)
	}

	s.recordOutcome(true)
	s.metrics.BookingsCreated.Inc()
	s.publish(ctx, events.TypeBookingCreated, booking)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("resource", booking.Resource),
		zap.String("owner_id", booking.OwnerID.String()))

	resp := response.BookingToResponse(booking, principal.OwnerID)
	return &resp, nil
}

// CancelBooking cancels a booking owned by the principal. A booking that is
// already cancelled is returned as is.
func (s *bookingService) CancelBooking(ctx context.Context, principal utils.Principal, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.OwnerID != principal.OwnerID {
		s.log.Warn("Cancel attempt by non-owner",
			zap.String("booking_id", booking.ID.String()),
			zap.String("owner_id", principal.OwnerID.String()))
		return nil, fmt.Errorf("%w: only the owner can cancel this booking", ErrForbidden)
	}

	if !booking.IsActive() {
		resp := response.BookingToResponse(booking, principal.OwnerID)
		return &resp, nil
	}

	now := s.now()
	if err := s.repo.Booking.Cancel(ctx, booking.ID, now); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, s.storeFault("cancel_booking", err)
	}

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	s.metrics.BookingsCancelled.Inc()
	s.publish(ctx, events.TypeBookingCancelled, booking)

	s.log.Info("Booking cancelled", zap.String("booking_id", booking.ID.String()))

	resp := response.BookingToResponse(booking, principal.OwnerID)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// candidate validates input and builds the admission candidate.
func (s *bookingService) candidate(resource string, start, end time.Time, req any) (admission.Candidate, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return admission.Candidate{}, newValidationError("invalid booking", errs)
	}

	if err := s.requireResource(resource); err != nil {
		return admission.Candidate{}, err
	}

	// timestamptz keeps microseconds
	interval, err := admission.NewInterval(start.Truncate(time.Microsecond), end.Truncate(time.Microsecond))
	if err != nil {
		return admission.Candidate{}, fieldError("end_time", err.Error())
	}

	return admission.Candidate{Resource: resource, Interval: interval}, nil
}

func (s *bookingService) requireResource(resource string) error {
	if resource == "" {
		return fieldError("resource", "This field is required")
	}
	if _, ok := s.resources[resource]; !ok {
		return fieldError("resource", fmt.Sprintf("Unknown resource %q", resource))
	}
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fieldError("id", "Must be a valid UUID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeFault("find_booking", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	return booking, nil
}

func (s *bookingService) recordOutcome(admitted bool) {
	outcome := metrics.OutcomeAdmitted
	if !admitted {
		outcome = metrics.OutcomeConflict
	}
	s.metrics.AdmissionChecks.WithLabelValues(outcome).Inc()
}

func (s *bookingService) storeFault(op string, err error) error {
	s.metrics.ErrorsCount.WithLabelValues(op).Inc()
	s.log.Error("Booking store failed", zap.String("operation", op), zap.Error(err))
	return unavailable(op, err)
}

// publish is best effort: the booking is already committed.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *entity.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		Resource:   booking.Resource,
		OwnerID:    booking.OwnerID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		OccurredAt: s.now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("publish_event").Inc()
		s.log.Warn("Failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
	}
}
