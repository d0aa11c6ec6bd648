package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestDeliveryHolidayExcludesSundayOnly(t *testing.T) {
	// 2023-12-04 is a Monday.
	for i := 0; i < 7; i++ {
		day := date(2023, time.December, 4+i)
		want := day.Weekday() == time.Sunday
		if got := DeliveryHoliday(day); got != want {
			t.Fatalf("%s (%s): expected %v, got %v", day.Format(dateLayout), day.Weekday(), want, got)
		}
	}
}

func TestWeekdayIndexAboveSundayFirst(t *testing.T) {
	rule := WeekdayIndexAbove(time.Sunday, 5)
	for i := 0; i < 7; i++ {
		day := date(2023, time.December, 4+i)
		want := day.Weekday() == time.Saturday
		if got := rule(day); got != want {
			t.Fatalf("%s (%s): expected %v, got %v", day.Format(dateLayout), day.Weekday(), want, got)
		}
	}
}

func TestWeekend(t *testing.T) {
	if !Weekend(date(2023, time.December, 2)) || !Weekend(date(2023, time.December, 3)) {
		t.Fatalf("expected saturday and sunday excluded")
	}
	if Weekend(date(2023, time.December, 1)) || Weekend(date(2023, time.December, 4)) {
		t.Fatalf("expected friday and monday counted")
	}
}

func TestHolidaySet(t *testing.T) {
	set, err := ParseHolidaySet([]string{"2025-01-01", " ", "2024-12-25 "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 holidays, got %d", set.Len())
	}
	if !set.Contains(time.Date(2025, time.January, 1, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("expected new year's day to be a holiday regardless of time of day")
	}
	if set.Contains(date(2025, time.January, 2)) {
		t.Fatalf("unexpected holiday")
	}

	dates := set.With(date(2024, time.January, 1)).Dates()
	if len(dates) != 3 || !dates[0].Equal(date(2024, time.January, 1)) || !dates[2].Equal(date(2025, time.January, 1)) {
		t.Fatalf("unexpected dates %v", dates)
	}
	if set.Len() != 2 {
		t.Fatalf("With must not modify the receiver")
	}

	var empty *HolidaySet
	if empty.Contains(date(2025, time.January, 1)) || empty.Len() != 0 {
		t.Fatalf("nil set must be empty")
	}

	if _, err := ParseHolidaySet([]string{"2024-13-01"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestHolidaySetWithETA(t *testing.T) {
	rule := Any(Weekend, NewHolidaySet(date(2025, time.January, 1)).Contains)
	got, err := ComputeETA(date(2024, time.December, 31), 2, rule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := date(2025, time.January, 3); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format(dateLayout), got.Format(dateLayout))
	}
}

func TestUSFederalHolidays(t *testing.T) {
	rule := USFederalHolidays()
	tests := []struct {
		day  time.Time
		want bool
	}{
		{date(2024, time.July, 4), true},
		{date(2024, time.July, 5), false},
		{date(2022, time.December, 26), true}, // christmas observed
		{date(2024, time.March, 12), false},
	}
	for _, tt := range tests {
		if got := rule(tt.day); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.day.Format(dateLayout), tt.want, got)
		}
	}
}

func TestRuleByName(t *testing.T) {
	holidays := NewHolidaySet(date(2023, time.December, 4))

	rule, err := RuleByName("Weekend+holidays", holidays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rule(date(2023, time.December, 2)) || !rule(date(2023, time.December, 4)) || rule(date(2023, time.December, 5)) {
		t.Fatalf("combined rule misbehaves")
	}

	rule, err = RuleByName(RuleDelivery, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule(date(2023, time.December, 2)) || !rule(date(2023, time.December, 3)) {
		t.Fatalf("delivery rule misbehaves")
	}

	rule, err = RuleByName(RuleHolidays, nil)
	if err != nil || rule(date(2023, time.December, 4)) {
		t.Fatalf("holidays rule without a set must exclude nothing (err %v)", err)
	}

	if _, err := RuleByName("weekend+moonday", nil); !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestCanonicalRule(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"delivery", "delivery"},
		{" Weekend+HOLIDAYS ", "weekend+holidays"},
		{"holidays+weekend", "weekend+holidays"},
		{"weekend+weekend+weekend+holidays+weekend", "weekend+holidays"},
		{"us-federal + weekend", "weekend+us-federal"},
	}
	for _, tt := range tests {
		got, err := CanonicalRule(tt.in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"", "weekend+", "weekend+moonday"} {
		if _, err := CanonicalRule(bad); !errors.Is(err, ErrUnknownRule) {
			t.Fatalf("%q: expected ErrUnknownRule, got %v", bad, err)
		}
	}
}
