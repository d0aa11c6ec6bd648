package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "fastapi"

	groupLabel  = "group"
	routeLabel  = "route"
	methodLabel = "method"
	statusLabel = "status"

	// unmatchedGroup labels requests no route matched, keeping 404 probes of
	// random paths out of the route label.
	unmatchedGroup = "unmatched"
)

// HTTPMetrics records request counts and latency per route group ("users",
// "movies", "deliveries", ...) and the number of requests in flight. Labels
// come from the chi route pattern, never the raw path.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route group, route, method and status class.",
		}, []string{groupLabel, routeLabel, methodLabel, statusLabel}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route group and method.",
			Buckets:   []float64{.005, .025, .1, .3, 1, 3},
		}, []string{groupLabel, methodLabel}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests being served.",
		}),
	}
}

// Register adds the collectors to reg.
func (m *HTTPMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.requests, m.latency, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler must wrap the chi router so the route pattern is known once the
// request has been served.
func (m *HTTPMetrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		group := routeGroup(route)
		if route == "" {
			group = unmatchedGroup
		}
		m.requests.WithLabelValues(group, route, r.Method, statusClass(ww.Status())).Inc()
		m.latency.WithLabelValues(group, r.Method).Observe(time.Since(start).Seconds())
	})
}

// routeGroup returns the first segment of a route pattern, e.g. "users" for
// "/users/{id}".
func routeGroup(pattern string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(pattern, "/"), "/")
	if seg == "" || strings.ContainsAny(seg, "{*") {
		return "root"
	}
	return seg
}

func statusClass(status int) string {
	if status == 0 {
		status = http.StatusOK
	}
	return strconv.Itoa(status/100) + "xx"
}
