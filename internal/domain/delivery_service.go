package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/s4ngmin-9/Fast-API/internal/calendar"
	"github.com/s4ngmin-9/Fast-API/internal/metrics"
)

const DateLayout = "2006-01-02"

// Cache stores computed values for a limited time.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// DeliveryConfig holds the defaults used when a quote request leaves the
// duration or the rule unset. MaxRequiredDays caps the requested duration;
// zero means no cap.
type DeliveryConfig struct {
	RequiredDays    int
	MaxRequiredDays int
	Rule            string
	Holidays        *calendar.HolidaySet
	CacheTTL        time.Duration
}

type QuoteRequest struct {
	PurchaseDate time.Time
	RequiredDays *int
	Rule         string
}

type Quote struct {
	PurchaseDate string `json:"purchase_date"`
	ETA          string `json:"eta"`
	RequiredDays int    `json:"required_days"`
	Rule         string `json:"rule"`
}

type DeliveryService struct {
	cfg      DeliveryConfig
	holidays HolidayStore
	cache    Cache
}

// NewDeliveryService builds the ETA quoting service. holidays and cache may be
// nil.
func NewDeliveryService(cfg DeliveryConfig, holidays HolidayStore, cache Cache) *DeliveryService {
	if cfg.Rule == "" {
		cfg.Rule = calendar.RuleDelivery
	}
	return &DeliveryService{cfg: cfg, holidays: holidays, cache: cache}
}

// Quote computes the ETA of an order. Quotes for rules using the stored
// holidays are not cached, so an import is visible to the next quote.
func (s *DeliveryService) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	days := s.cfg.RequiredDays
	if req.RequiredDays != nil {
		days = *req.RequiredDays
	}
	if s.cfg.MaxRequiredDays > 0 && days > s.cfg.MaxRequiredDays {
		return Quote{}, NewValidationError("required_days %d: must be at most %d", days, s.cfg.MaxRequiredDays)
	}

	name := req.Rule
	if strings.TrimSpace(name) == "" {
		name = s.cfg.Rule
	}
	rule, err := calendar.CanonicalRule(name)
	if err != nil {
		return Quote{}, NewValidationError("rule: %w", err)
	}
	purchase := req.PurchaseDate.Format(DateLayout)

	cache := s.cache
	if strings.Contains(rule, calendar.RuleHolidays) && s.holidays != nil {
		cache = nil
	}

	key := fmt.Sprintf("eta:%s:%d:%s", rule, days, purchase)
	if cache != nil {
		if raw, ok := cache.Get(ctx, key); ok {
			var q Quote
			if err := json.Unmarshal([]byte(raw), &q); err == nil {
				metrics.IncreaseETAQuotesMetric(rule, metrics.CacheHit)
				return q, nil
			}
		}
	}

	isExcluded, err := s.predicate(ctx, rule)
	if err != nil {
		return Quote{}, err
	}
	eta, err := calendar.ServiceDuration{RequiredDays: days, IsExcluded: isExcluded}.ETA(req.PurchaseDate)
	if errors.Is(err, calendar.ErrInvalidArgument) {
		return Quote{}, NewValidationError("required_days: %w", err)
	}
	if err != nil {
		return Quote{}, err
	}

	q := Quote{PurchaseDate: purchase, ETA: eta.Format(DateLayout), RequiredDays: days, Rule: rule}
	metrics.IncreaseETAQuotesMetric(rule, metrics.CacheMiss)
	if cache != nil {
		if raw, err := json.Marshal(q); err == nil {
			if err := cache.Set(ctx, key, string(raw), s.cfg.CacheTTL); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to cache eta quote")
			}
		}
	}
	return q, nil
}

func (s *DeliveryService) predicate(ctx context.Context, rule string) (calendar.ExclusionPredicate, error) {
	holidays := s.cfg.Holidays
	if strings.Contains(rule, calendar.RuleHolidays) && s.holidays != nil {
		stored, err := s.holidays.List(ctx, 0)
		if err != nil {
			return nil, fmt.Errorf("load holidays: %w", err)
		}
		days := make([]time.Time, 0, len(stored))
		for _, h := range stored {
			days = append(days, h.Date)
		}
		holidays = holidays.With(days...)
	}
	p, err := calendar.RuleByName(rule, holidays)
	if err != nil {
		return nil, NewValidationError("rule: %w", err)
	}
	return p, nil
}
