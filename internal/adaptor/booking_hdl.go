package adaptor

import (
	"net/http"

	"vehicle-booking/internal/dto/request"
	"vehicle-booking/internal/usecase"
	"vehicle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListResources handles GET /api/resources (protected)
func (h *BookingHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.ListResources())
}

// ListActive handles GET /api/bookings?resource= (protected)
func (h *BookingHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListActive(r.Context(), principal, r.URL.Query().Get("resource"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "list active bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ListUpcoming handles GET /api/bookings/upcoming (protected)
func (h *BookingHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListUpcoming(r.Context(), principal, r.URL.Query().Get("resource"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "list upcoming bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CheckAvailability handles POST /api/bookings/check (protected)
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req request.CheckAvailabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.CheckAvailability(r.Context(), principal, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), principal, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}
