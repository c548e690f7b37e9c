// Package metrics owns the Prometheus registry and the application collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	InvitationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invitations_created_total",
		Help: "Customer invitations issued.",
	})

	InvitationsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invitations_accepted_total",
		Help: "Customer invitations accepted.",
	})

	InvitationsResent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invitations_resent_total",
		Help: "Customer invitations re-issued with a fresh token.",
	})

	InvitationsCleanedUp = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invitations_cleaned_up_total",
		Help: "Expired invitations deactivated by cleanup.",
	})

	InvitationAcceptRateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invitation_accept_rate_limited_total",
		Help: "Acceptance attempts rejected by the rate limiter.",
	})

	NotificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Notifications persisted, by recipient kind.",
		},
		[]string{"recipient_kind"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		InvitationsCreated,
		InvitationsAccepted,
		InvitationsResent,
		InvitationsCleanedUp,
		InvitationAcceptRateLimited,
		NotificationsDelivered,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Instrument records request counts and latency labelled by the chi route pattern,
// so ids in the path do not explode cardinality.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
