package adaptor

import (
	"net/http"

	"vehicle-booking/internal/dto/request"
	"vehicle-booking/internal/usecase"
	"vehicle-booking/pkg/utils"

	"go.uber.org/zap"
)

type CalendarHandler struct {
	service usecase.CalendarService
	log     *zap.Logger
}

func NewCalendarHandler(service usecase.CalendarService, log *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		log:     log.With(zap.String("handler", "calendar")),
	}
}

// Events handles GET /api/calendar?from=&to=&resource= (protected)
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.CalendarQuery{
		From:     query.Get("from"),
		To:       query.Get("to"),
		Resource: query.Get("resource"),
	}

	resp, err := h.service.Events(r.Context(), principal, &req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "calendar events")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// Prefill handles GET /api/calendar/prefill?date=YYYY-MM-DD (protected)
func (h *CalendarHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	req := request.PrefillQuery{Date: r.URL.Query().Get("date")}

	resp, err := h.service.Prefill(&req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "prefill")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}
