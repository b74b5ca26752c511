// Package metrics exposes Prometheus counters for HTTP traffic and for the
// marketplace's business events.
//
// Each Metrics value owns its own registry, so tests can build as many
// servers as they like without "duplicate metrics collector" panics. All
// recording methods are safe on a nil *Metrics, which lets services run
// without metrics in unit tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "collabhub"

type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registrations  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	messagesSent   prometheus.Counter
	campaigns      *prometheus.CounterVec
	collaborations *prometheus.CounterVec
	firstPaid      prometheus.Counter
	resets         prometheus.Counter
}

// New builds a Metrics with Go runtime and process collectors already
// registered alongside the application metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Successful registrations by role.",
		}, []string{"role"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages stored.",
		}),
		campaigns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_events_total",
			Help:      "Campaign lifecycle events.",
		}, []string{"event"}),
		collaborations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collaboration_events_total",
			Help:      "Collaboration lifecycle events.",
		}, []string{"event"}),
		firstPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "creators_first_paid_total",
			Help:      "Creators whose first collaboration was paid.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_resets_total",
			Help:      "Times the stores were reset and reseeded.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.registrations,
		m.logins,
		m.messagesSent,
		m.campaigns,
		m.collaborations,
		m.firstPaid,
		m.resets,
	)
	return m
}

// Registry is exposed for tests that want to gather values directly.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument records count, latency and in-flight gauge per request. The
// route label is chi's matched pattern (e.g. /api/users/{id}) so ids never
// leak into label values.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
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
		code := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) UserRegistered(role string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(role).Inc()
}

// LoginAttempt records "success" or "failure".
func (m *Metrics) LoginAttempt(ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.messagesSent.Inc()
}

func (m *Metrics) CampaignCreated() {
	if m == nil {
		return
	}
	m.campaigns.WithLabelValues("created").Inc()
}

func (m *Metrics) CampaignClosed() {
	if m == nil {
		return
	}
	m.campaigns.WithLabelValues("closed").Inc()
}

func (m *Metrics) CollaborationProposed() {
	if m == nil {
		return
	}
	m.collaborations.WithLabelValues("proposed").Inc()
}

func (m *Metrics) CollaborationPaid() {
	if m == nil {
		return
	}
	m.collaborations.WithLabelValues("paid").Inc()
}

func (m *Metrics) CreatorFirstPaid() {
	if m == nil {
		return
	}
	m.firstPaid.Inc()
}

func (m *Metrics) StoreReset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}
