package domain

import (
	"context"
	"fmt"
	"time"
)

type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

type HolidayStore interface {
	YearExists(ctx context.Context, year int) (bool, error)
	InsertBatch(ctx context.Context, year int, holidays []Holiday) error
	// List returns the holidays of year in date order, or all of them when
	// year is 0.
	List(ctx context.Context, year int) ([]Holiday, error)
}

// ImportBatchSize bounds the number of holidays written per InsertBatch call.
const ImportBatchSize = 500

type HolidayService struct {
	repo HolidayStore
}

func NewHolidayService(r HolidayStore) *HolidayService {
	return &HolidayService{repo: r}
}

func (s *HolidayService) Imported(ctx context.Context, year int) (bool, error) {
	return s.repo.YearExists(ctx, year)
}

// Import stores the holidays of a year in batches unless that year was
// imported before.
func (s *HolidayService) Import(ctx context.Context, year int, holidays []Holiday) error {
	exists, err := s.repo.YearExists(ctx, year)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	for start := 0; start < len(holidays); start += ImportBatchSize {
		end := min(start+ImportBatchSize, len(holidays))
		if err := s.repo.InsertBatch(ctx, year, holidays[start:end]); err != nil {
			return fmt.Errorf("insert holidays %d: %w", year, err)
		}
	}
	return nil
}

func (s *HolidayService) List(ctx context.Context, year int) ([]Holiday, error) {
	return s.repo.List(ctx, year)
}
