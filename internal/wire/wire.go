package wire

import (
	"net/http"

	"vehicle-booking/internal/adaptor"
	"vehicle-booking/internal/data/repository"
	"vehicle-booking/internal/usecase"
	"vehicle-booking/pkg/events"
	"vehicle-booking/pkg/metrics"
	"vehicle-booking/pkg/middleware"
	"vehicle-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the router and the services background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Deps are the infrastructure pieces built in main.
type Deps struct {
	Repo      *repository.Repository
	Config    *utils.Config
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Publisher events.Publisher
	Logger    *zap.Logger
}

// Wiring builds services, handlers and routes.
func Wiring(deps Deps) *App {
	service := usecase.NewService(deps.Repo, deps.Config, deps.Metrics, deps.Publisher, deps.Logger)
	handler := adaptor.NewHandler(service, deps.Logger)

	router := setupRouter(handler, deps)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	wireAuth(r, handler.Auth, deps.Repo, deps.Config, deps.Logger)
	wireBooking(r, handler.Booking, deps.Repo, deps.Config, deps.Logger)
	wireCalendar(r, handler.Calendar, deps.Repo, deps.Config, deps.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	return r
}
