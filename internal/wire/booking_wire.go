package wire

import (
	"vehicle-booking/internal/adaptor"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/pkg/middleware"
	"vehicle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/resources", bookingHandler.ListResources)

		r.Route("/api/bookings", func(r chi.Router) {
			r.Get("/", bookingHandler.ListActive)
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/upcoming", bookingHandler.ListUpcoming)
			r.Post("/check", bookingHandler.CheckAvailability)

			r.Get("/{id}", bookingHandler.GetBooking)
			// owner only, enforced by the service
			r.Put("/{id}/cancel", bookingHandler.CancelBooking)
		})
	})
}
