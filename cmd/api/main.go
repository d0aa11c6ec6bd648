package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/s4ngmin-9/Fast-API/internal/auth"
	"github.com/s4ngmin-9/Fast-API/internal/calendar"
	"github.com/s4ngmin-9/Fast-API/internal/config"
	"github.com/s4ngmin-9/Fast-API/internal/domain"
	"github.com/s4ngmin-9/Fast-API/internal/httpapi"
	"github.com/s4ngmin-9/Fast-API/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	a, err := newApp(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise api")
	}
	defer a.Close()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("API running on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("failed to start server")
		return
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server exited")
}

type stores struct {
	users    domain.UserStore
	movies   domain.MovieStore
	holidays domain.HolidayStore
}

type app struct {
	handler http.Handler
	closers []io.Closer
	limiter *httpapi.RateLimiter
}

func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

// newApp wires the configured stores, cache and services into the HTTP API.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var s stores
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		repo, err := repository.NewPostgres(cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo)
		s = stores{users: repo.Users(), movies: repo.Movies(), holidays: repo.Holidays()}
	default:
		s = stores{
			users:    repository.NewUserRepository(),
			movies:   repository.NewMovieRepository(),
			holidays: repository.NewHolidayRepository(),
		}
	}

	var cache domain.Cache = repository.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rc := repository.NewRedisCache(cfg.RedisAddr)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, using in-memory eta cache")
			_ = rc.Close()
		} else {
			cache = rc
			a.closers = append(a.closers, rc)
		}
	}

	holidays, err := calendar.ParseHolidaySet(cfg.Holidays)
	if err != nil {
		a.Close()
		return nil, err
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	if err != nil {
		a.Close()
		return nil, err
	}

	users := domain.NewUserService(s.users, issuer)
	if cfg.StoreDriver == config.DriverMemory {
		if err := users.SeedDemo(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.limiter = httpapi.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	a.handler = httpapi.NewRouter(httpapi.Deps{
		Users:  users,
		Movies: domain.NewMovieService(s.movies),
		Deliveries: domain.NewDeliveryService(domain.DeliveryConfig{
			RequiredDays:    cfg.DeliveryDays,
			MaxRequiredDays: cfg.DeliveryMaxDays,
			Rule:            cfg.DeliveryRule,
			Holidays:        holidays,
			CacheTTL:        cfg.ETACacheTTL,
		}, s.holidays, cache),
		Holidays:    domain.NewHolidayService(s.holidays),
		Issuer:      issuer,
		RateLimiter: a.limiter,
	})
	return a, nil
}
