package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/s4ngmin-9/Fast-API/internal/config"
	"github.com/s4ngmin-9/Fast-API/internal/domain"
	"github.com/s4ngmin-9/Fast-API/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.StoreDriver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("holiday sync needs STORE_DRIVER=postgres")
	}
	log.Info().Msgf("Holiday sync running with DB %s from %s", cfg.DBName, cfg.HolidaySourceURL)

	repo, err := repository.NewPostgres(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &syncer{
		svc:     domain.NewHolidayService(repo.Holidays()),
		baseURL: cfg.HolidaySourceURL,
		client:  &http.Client{Timeout: 30 * time.Second},

		retryDelay: time.Second,
	}

	run := func() {
		for _, year := range syncYears(time.Now()) {
			if err := s.syncYear(ctx, year); err != nil {
				log.Error().Err(err).Msgf("failed to sync holidays for %d", year)
			}
		}
	}

	run()
	ticker := time.NewTicker(cfg.HolidaySyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			run()
		case <-ctx.Done():
			log.Info().Msg("holiday sync stopped")
			return
		}
	}
}

// syncYears returns the current and the next year.
func syncYears(now time.Time) []int {
	return []int{now.Year(), now.Year() + 1}
}

type syncer struct {
	svc     *domain.HolidayService
	baseURL string
	client  *http.Client
	// retryDelay is the pause between fetch attempts.
	retryDelay time.Duration
}

func (s *syncer) syncYear(ctx context.Context, year int) error {
	imported, err := s.svc.Imported(ctx, year)
	if err != nil {
		return err
	}
	if imported {
		log.Info().Msgf("holidays for %d already imported", year)
		return nil
	}

	var holidays []domain.Holiday
	err = repository.Retry(ctx, 3, s.retryDelay, func() error {
		holidays = holidays[:0]
		body, err := s.fetchYear(ctx, year)
		if err != nil {
			return err
		}
		defer body.Close()

		holidayCh, errCh := parseHolidays(ctx, body)
		for h := range holidayCh {
			if h.Date.Year() != year {
				continue
			}
			holidays = append(holidays, h)
		}
		return <-errCh
	})
	if err != nil {
		return err
	}

	if err := s.svc.Import(ctx, year, holidays); err != nil {
		return err
	}
	log.Info().Int("year", year).Int("count", len(holidays)).Msg("holidays imported")
	return nil
}

func (s *syncer) fetchYear(ctx context.Context, year int) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%d", strings.TrimRight(s.baseURL, "/"), year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp.Body, nil
}

// parseHolidays streams the `YYYY-MM-DD;Name` lines of r. The first line is a
// header. Malformed lines are logged and skipped.
func parseHolidays(ctx context.Context, r io.Reader) (<-chan domain.Holiday, <-chan error) {
	holidays := make(chan domain.Holiday)
	errCh := make(chan error, 1)
	go func() {
		defer close(holidays)
		defer close(errCh)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 1024), 1024*1024)
		first := true
		for scanner.Scan() {
			if first {
				first = false
				continue
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			dateStr, name, ok := strings.Cut(line, ";")
			if !ok {
				log.Warn().Str("line", line).Msg("skipping malformed holiday line")
				continue
			}
			day, err := time.Parse(domain.DateLayout, strings.TrimSpace(dateStr))
			if err != nil {
				log.Warn().Err(err).Str("line", line).Msg("skipping malformed holiday line")
				continue
			}
			select {
			case holidays <- domain.Holiday{Date: day, Name: strings.TrimSpace(name)}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				errCh <- fmt.Errorf("scanner buffer overflow: %w", err)
			} else {
				errCh <- err
			}
			return
		}
		errCh <- nil
	}()
	return holidays, errCh
}
