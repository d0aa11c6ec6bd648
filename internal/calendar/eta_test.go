package calendar

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeETADeliveryRule(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"friday", date(2023, time.December, 1), date(2023, time.December, 4)},
		{"year boundary", date(2024, time.December, 31), date(2025, time.January, 2)},
		{"leap year", date(2024, time.February, 28), date(2024, time.March, 1)},
		{"non leap year", date(2023, time.February, 28), date(2023, time.March, 2)},
	}
	for _, tt := range tests {
		got, err := ComputeETA(tt.start, 2, DeliveryHoliday)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("%s: expected %s, got %s", tt.name, tt.want.Format(dateLayout), got.Format(dateLayout))
		}
	}
}

func TestComputeETAZeroDaysReturnsStart(t *testing.T) {
	start := time.Date(2023, time.December, 3, 17, 45, 12, 99, time.FixedZone("KST", 9*3600))
	for _, p := range []ExclusionPredicate{Never, Weekend, DeliveryHoliday, func(time.Time) bool { return true }} {
		got, err := ComputeETA(start, 0, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != start {
			t.Fatalf("expected start %v unchanged, got %v", start, got)
		}
	}
}

func TestComputeETANegativeDays(t *testing.T) {
	_, err := ComputeETA(date(2023, time.December, 1), -1, Weekend)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestComputeETANeverExcluded(t *testing.T) {
	start := date(2023, time.January, 30)
	for n := 0; n <= 400; n += 37 {
		got, err := ComputeETA(start, n, Never)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := start.AddDate(0, 0, n); !got.Equal(want) {
			t.Fatalf("n=%d: expected %s, got %s", n, want.Format(dateLayout), got.Format(dateLayout))
		}
	}
}

func TestComputeETANilPredicate(t *testing.T) {
	got, err := ComputeETA(date(2023, time.December, 1), 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2023, time.December, 3); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestComputeETAMonotonic(t *testing.T) {
	starts := []time.Time{date(2023, time.December, 1), date(2024, time.February, 25), date(2024, time.December, 28)}
	rules := []ExclusionPredicate{Weekend, DeliveryHoliday, Any(Weekend, NewHolidaySet(date(2025, time.January, 1)).Contains)}
	for _, start := range starts {
		for _, rule := range rules {
			prev := start
			for n := 0; n < 30; n++ {
				got, err := ComputeETA(start, n, rule)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.Before(prev) {
					t.Fatalf("eta for %d days (%s) before eta for %d days (%s)", n, got.Format(dateLayout), n-1, prev.Format(dateLayout))
				}
				prev = got
			}
		}
	}
}

func TestComputeETAPreservesTimeOfDay(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	start := time.Date(2023, time.December, 1, 15, 30, 0, 0, loc)
	got, err := ComputeETA(start, 2, Weekend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, time.December, 5, 15, 30, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestComputeETAStepsOverExcludedRun(t *testing.T) {
	holidays := NewHolidaySet(date(2023, time.December, 25), date(2023, time.December, 26))
	var visited []time.Time
	rule := func(day time.Time) bool {
		visited = append(visited, day)
		return Weekend(day) || holidays.Contains(day)
	}

	got, err := ComputeETA(date(2023, time.December, 22), 1, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2023, time.December, 27); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format(dateLayout), got.Format(dateLayout))
	}
	if len(visited) != 5 {
		t.Fatalf("expected predicate to see 5 days, saw %d", len(visited))
	}
	for i, d := range visited {
		if want := date(2023, time.December, 23+i); !d.Equal(want) {
			t.Fatalf("step %d visited %s, want %s", i, d.Format(dateLayout), want.Format(dateLayout))
		}
	}
}

func TestServiceDurationETA(t *testing.T) {
	d := ServiceDuration{RequiredDays: 2, IsExcluded: Weekend}
	got, err := d.ETA(date(2023, time.December, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2023, time.December, 5); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format(dateLayout), got.Format(dateLayout))
	}
}

func TestComputeETAPredicatePanicPropagates(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected panic %q to propagate, got %v", "boom", r)
		}
	}()
	_, _ = ComputeETA(date(2023, time.December, 1), 1, func(time.Time) bool { panic("boom") })
	t.Fatalf("expected panic")
}

func TestComputeETAConcurrentSharedHolidays(t *testing.T) {
	rule := Any(Weekend, NewHolidaySet(date(2025, time.January, 1)).Contains)
	want, err := ComputeETA(date(2024, time.December, 31), 2, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := ComputeETA(date(2024, time.December, 31), 2, rule)
			if err == nil && !got.Equal(want) {
				err = errors.New("result differs from sequential computation")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent compute: %v", err)
		}
	}
}
