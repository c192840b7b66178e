package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lapor"

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	Transitions      *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	AuditWrites      *prometheus.CounterVec
	DBConnPoolStats  *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New registers every collector on reg. Tests pass a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "Accepted status transitions",
			},
			[]string{"entity", "from", "to"},
		),
		Rejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lifecycle",
				Name:      "rejections_total",
				Help:      "Rejected status transitions by reason",
			},
			[]string{"entity", "reason"},
		),
		AuditWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "writes_total",
				Help:      "Status changes drained from the audit queue",
			},
			[]string{"result"},
		),
		DBConnPoolStats: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "postgres",
				Name:      "connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
		gatherer: reg,
	}
}

// NewDefault registers on a new registry that also exposes the Go runtime
// and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordTransition(entity, from, to string) {
	m.Transitions.WithLabelValues(entity, from, to).Inc()
}

func (m *Metrics) RecordRejection(entity, reason string) {
	m.Rejections.WithLabelValues(entity, reason).Inc()
}

func (m *Metrics) RecordAuditWrite(result string) {
	m.AuditWrites.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordDBPoolStats(total, acquired, idle int32, emptyAcquire int64, acquireDuration time.Duration) {
	m.DBConnPoolStats.WithLabelValues("total").Set(float64(total))
	m.DBConnPoolStats.WithLabelValues("acquired").Set(float64(acquired))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(idle))
	m.DBConnPoolStats.WithLabelValues("empty_acquire").Set(float64(emptyAcquire))
	m.DBConnPoolStats.WithLabelValues("acquire_duration_ms").Set(float64(acquireDuration.Milliseconds()))
}

// Middleware records count and latency per chi route pattern, so ids in the
// path do not blow up label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
