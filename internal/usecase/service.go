package usecase

import (
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/pkg/events"
	"vehicle-booking/pkg/metrics"
	"vehicle-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Booking  BookingService
	Calendar CalendarService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	m *metrics.Metrics,
	publisher events.Publisher,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Booking:  NewBookingService(repo, config, m, publisher, log),
		Calendar: NewCalendarService(repo, config, log),
	}
}
