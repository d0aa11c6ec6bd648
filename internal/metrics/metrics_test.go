package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncreaseETAQuotesMetric(t *testing.T) {
	before := testutil.ToFloat64(etaQuotesTotalMetric.WithLabelValues("weekend", CacheMiss))
	IncreaseETAQuotesMetric("weekend", CacheMiss)
	IncreaseETAQuotesMetric("weekend", CacheHit)
	if got := testutil.ToFloat64(etaQuotesTotalMetric.WithLabelValues("weekend", CacheMiss)); got != before+1 {
		t.Fatalf("expected %v misses, got %v", before+1, got)
	}
}

func TestHTTPMetricsLabelsByRouteGroup(t *testing.T) {
	m := NewHTTPMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/movies/1", "/movies/2", "/health", "/random-1", "/random-2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("movies", "/movies/{id}", http.MethodGet, "4xx")); got != 2 {
		t.Fatalf("expected 2 movie requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("health", "/health", http.MethodGet, "2xx")); got != 1 {
		t.Fatalf("expected 1 health request, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(unmatchedGroup, "", http.MethodGet, "4xx")); got != 2 {
		t.Fatalf("expected unmatched paths folded into one series, got %v", got)
	}
	if n := testutil.CollectAndCount(m.requests); n != 3 {
		t.Fatalf("expected 3 request series, got %d", n)
	}
	if got := testutil.ToFloat64(m.inFlight); got != 0 {
		t.Fatalf("expected no requests in flight, got %v", got)
	}
	if err := m.Register(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/users/{id}":     "users",
		"/deliveries/eta": "deliveries",
		"/holidays/":      "holidays",
		"/":               "root",
		"/{id}":           "root",
	}
	for pattern, want := range tests {
		if got := routeGroup(pattern); got != want {
			t.Fatalf("%s: expected %s, got %s", pattern, want, got)
		}
	}
}
