package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/s4ngmin-9/Fast-API/internal/auth"
	"github.com/s4ngmin-9/Fast-API/internal/domain"
	"github.com/s4ngmin-9/Fast-API/internal/metrics"
)

// Deps are the collaborators the API is built from. RateLimiter may be nil.
type Deps struct {
	Users       *domain.UserService
	Movies      *domain.MovieService
	Deliveries  *domain.DeliveryService
	Holidays    *domain.HolidayService
	Issuer      *auth.Issuer
	RateLimiter *RateLimiter
}

type handler struct {
	users      *domain.UserService
	movies     *domain.MovieService
	deliveries *domain.DeliveryService
	holidays   *domain.HolidayService
	now        func() time.Time
}

func NewRouter(d Deps) http.Handler {
	h := &handler{
		users:      d.Users,
		movies:     d.Movies,
		deliveries: d.Deliveries,
		holidays:   d.Holidays,
		now:        time.Now,
	}
	authn := auth.NewAuthenticator(d.Issuer, d.Users.Get, writeAuthError)

	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics()
	if err := httpMetrics.Register(reg); err != nil {
		log.Error().Err(err).Msg("failed to register http metrics")
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		hlog.NewHandler(log.Logger),
		hlog.AccessHandler(accessLog),
		middleware.Recoverer,
		httpMetrics.Handler,
	)
	if d.RateLimiter != nil {
		r.Use(rateLimitMiddleware(d.RateLimiter))
	}
	r.Use(gzipMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(prometheus.Gatherers{prometheus.DefaultGatherer, reg}, promhttp.HandlerOpts{DisableCompression: true}))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.createUser)
		r.Get("/", h.listUsers)
		r.Get("/search", h.searchUsers)
		r.Get("/search/", h.searchUsers)
		r.Post("/login", h.login)
		r.With(authn.Authenticator).Get("/me", h.me)
		r.Get("/{id}", h.getUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})

	r.Route("/movies", func(r chi.Router) {
		r.Post("/", h.createMovie)
		r.Get("/", h.listMovies)
		r.Get("/{id}", h.getMovie)
		r.Put("/{id}", h.updateMovie)
		r.Delete("/{id}", h.deleteMovie)
	})

	r.Get("/deliveries/eta", h.deliveryETA)
	r.Get("/holidays", h.listHolidays)
	r.Get("/holidays/", h.listHolidays)

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	var evt *zerolog.Event
	switch {
	case status >= 500:
		evt = hlog.FromRequest(r).Error()
	case status >= 400:
		evt = hlog.FromRequest(r).Warn()
	case r.URL.Path == "/health":
		evt = hlog.FromRequest(r).Debug()
	default:
		evt = hlog.FromRequest(r).Info()
	}
	evt.
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request completed")
}
