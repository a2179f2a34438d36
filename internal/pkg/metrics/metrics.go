package metrics

import (
	"time"

	"marketplace-booking/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds booking metrics on a private registry. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	Registry *prometheus.Registry

	BookingsCreated     *prometheus.CounterVec
	BookingConflicts    prometheus.Counter
	BookingTransitions  *prometheus.CounterVec
	SlotLocks           *prometheus.CounterVec
	SlotQueries         *prometheus.CounterVec
	NotificationsSent   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func NewMetrics(cfg config.MetricsConfig) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		BookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created, by initial status",
		}, []string{"status"}),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "booking_conflicts_total",
			Help:      "Total number of booking attempts rejected because the slot was taken",
		}),
		BookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "booking_transitions_total",
			Help:      "Total number of booking status transitions",
		}, []string{"to"}),
		SlotLocks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "slot_locks_total",
			Help:      "Total number of slot lock attempts, by result",
		}, []string{"result"}),
		SlotQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "slot_queries_total",
			Help:      "Total number of slot listings, by generator source",
		}, []string{"source"}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "notifications_dispatched_total",
			Help:      "Total number of outbox notifications handled, by result",
		}, []string{"result"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) BookingCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

func (m *Metrics) BookingTransition(to string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) SlotLock(result string) {
	if m == nil {
		return
	}
	m.SlotLocks.WithLabelValues(result).Inc()
}

func (m *Metrics) SlotQuery(source string) {
	if m == nil {
		return
	}
	m.SlotQueries.WithLabelValues(source).Inc()
}

func (m *Metrics) NotificationDispatched(result string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}
