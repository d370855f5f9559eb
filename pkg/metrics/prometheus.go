package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// admission outcomes
const (
	OutcomeAdmitted = "admitted"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	AdmissionChecks   *prometheus.CounterVec
	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics registers the service metrics on reg. Tests pass a fresh
// registry so repeated construction does not panic.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AdmissionChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_checks_total",
			Help:      "Admission decisions by outcome",
		}, []string{"outcome"}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of admitted bookings",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "The total number of cancelled bookings",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
