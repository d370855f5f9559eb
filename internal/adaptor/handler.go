package adaptor

import (
	"vehicle-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Booking  *BookingHandler
	Calendar *CalendarHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Calendar: NewCalendarHandler(service.Calendar, log),
	}
}
