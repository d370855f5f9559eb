package wire

import (
	"vehicle-booking/internal/adaptor"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/pkg/middleware"
	"vehicle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCalendar(
	r chi.Router,
	calendarHandler *adaptor.CalendarHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/calendar", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/", calendarHandler.Events)
		r.Get("/prefill", calendarHandler.Prefill)
	})
}
