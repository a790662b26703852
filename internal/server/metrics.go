package server

import (
	"net/http"
	"strconv"
	"time"

	"smart-parking/internal/parking"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics builds a dedicated registry with process, runtime, HTTP and
// occupancy collectors. Occupancy gauges read the lot on every scrape.
func NewMetrics(service *parking.Service) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "parking_slots_occupied",
		Help: "Occupied parking slots",
	}, func() float64 {
		return float64(service.Lot().ParkingLot.Status().OccupiedSlots)
	})

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "parking_slots_available",
		Help: "Free parking slots",
	}, func() float64 {
		return float64(service.Lot().ParkingLot.Status().AvailableSlots)
	})

	available := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parking_slots_available_for_size",
		Help: "Free slots a vehicle of the given size could use",
	}, []string{"size"})
	service.Subscribe(func(parking.Event) {
		lot := service.Lot().ParkingLot
		for _, size := range parking.Sizes {
			available.WithLabelValues(size.String()).Set(float64(lot.AvailableSlotsForSize(size)))
		}
	})
	for _, size := range parking.Sizes {
		available.WithLabelValues(size.String()).Set(float64(service.Lot().ParkingLot.AvailableSlotsForSize(size)))
	}

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
