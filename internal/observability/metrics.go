package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "washride", Name: "booking_transitions_total", Help: "Booking status transitions committed"},
		[]string{"from", "to"},
	)
	TransitionConflicts = promauto.NewCounter(prometheus.CounterOpts{Namespace: "washride", Name: "booking_transition_conflicts_total", Help: "Status transitions lost to a concurrent writer"})

	SimTicksTotal      = promauto.NewCounter(prometheus.CounterOpts{Namespace: "washride", Name: "sim_ticks_total", Help: "Simulator tick passes"})
	SimDriversTracked  = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "washride", Name: "sim_drivers_tracked", Help: "Drivers currently stepped by the simulator"})
	RouteRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "washride", Name: "route_requests_total", Help: "Route provider lookups issued"})
	RouteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "washride", Name: "route_failures_total", Help: "Route provider lookups that failed"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "washride", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "washride",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
