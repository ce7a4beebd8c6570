package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	bookingsCreated     prometheus.Counter
	bookingConflicts    prometheus.Counter
	availabilityQueries *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salon_bookings_created_total",
			Help: "Bookings committed by the public booking flow.",
		}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salon_booking_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken.",
		}),
		availabilityQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_availability_queries_total",
			Help: "Availability queries by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salon_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.bookingsCreated,
		m.bookingConflicts,
		m.availabilityQueries,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) BookingCreated() {
	if m != nil {
		m.bookingsCreated.Inc()
	}
}

func (m *Metrics) BookingConflict() {
	if m != nil {
		m.bookingConflicts.Inc()
	}
}

// AvailabilityQuery records one query; outcome is "ok", "empty" or "error".
func (m *Metrics) AvailabilityQuery(outcome string) {
	if m != nil {
		m.availabilityQueries.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m != nil {
		m.httpDuration.WithLabelValues(method, route, status).Observe(seconds)
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
