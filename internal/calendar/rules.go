package calendar

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const dateLayout = "2006-01-02"

// Rule names accepted by RuleByName.
const (
	RuleNever     = "never"
	RuleWeekend   = "weekend"
	RuleDelivery  = "delivery"
	RuleHolidays  = "holidays"
	RuleUSFederal = "us-federal"
)

var ErrUnknownRule = errors.New("unknown exclusion rule")

// Never excludes no day.
func Never(time.Time) bool { return false }

// Weekend excludes Saturdays and Sundays.
func Weekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekdayIndexAbove numbers the week starting at `first` (index 0) and
// excludes the days whose index is greater than threshold.
func WeekdayIndexAbove(first time.Weekday, threshold int) ExclusionPredicate {
	return func(day time.Time) bool {
		idx := (int(day.Weekday()) - int(first) + 7) % 7
		return idx > threshold
	}
}

// DeliveryHoliday is the historical delivery rule: weekday index > 5 with
// Monday as 0. Only Sundays are excluded.
var DeliveryHoliday = WeekdayIndexAbove(time.Monday, 5)

// Any excludes a day when at least one of preds excludes it.
func Any(preds ...ExclusionPredicate) ExclusionPredicate {
	return func(day time.Time) bool {
		for _, p := range preds {
			if p != nil && p(day) {
				return true
			}
		}
		return false
	}
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civil(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{y, m, d}
}

// HolidaySet is a fixed set of calendar dates. Membership compares the civil
// date in the location of the value asked about. It is read-only once built
// and safe for concurrent use.
type HolidaySet struct {
	days map[civilDate]struct{}
}

func NewHolidaySet(days ...time.Time) *HolidaySet {
	s := &HolidaySet{days: make(map[civilDate]struct{}, len(days))}
	for _, d := range days {
		s.days[civil(d)] = struct{}{}
	}
	return s
}

// ParseHolidaySet builds a set from YYYY-MM-DD strings. Blank entries are
// ignored.
func ParseHolidaySet(values []string) (*HolidaySet, error) {
	days := make([]time.Time, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", v, err)
		}
		days = append(days, d)
	}
	return NewHolidaySet(days...), nil
}

// With returns a new set holding the dates of s and days.
func (s *HolidaySet) With(days ...time.Time) *HolidaySet {
	out := NewHolidaySet(days...)
	if s != nil {
		for d := range s.days {
			out.days[d] = struct{}{}
		}
	}
	return out
}

func (s *HolidaySet) Contains(day time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.days[civil(day)]
	return ok
}

func (s *HolidaySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.days)
}

// Dates returns the dates of the set in ascending order, at midnight UTC.
func (s *HolidaySet) Dates() []time.Time {
	if s == nil {
		return nil
	}
	out := make([]time.Time, 0, len(s.days))
	for d := range s.days {
		out = append(out, time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// USFederalHolidays excludes the US federal holidays, observed dates
// included.
func USFederalHolidays() ExclusionPredicate {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return func(day time.Time) bool {
		actual, observed, _ := bc.IsHoliday(day)
		return actual || observed
	}
}

// RuleNames lists the single rule names understood by RuleByName.
func RuleNames() []string {
	return []string{RuleNever, RuleWeekend, RuleDelivery, RuleHolidays, RuleUSFederal}
}

// CanonicalRule normalises a rule name such as " Weekend+holidays+weekend"
// to its canonical form: lower case, each part once, parts in RuleNames
// order. Unknown parts yield ErrUnknownRule.
func CanonicalRule(name string) (string, error) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(name)), "+") {
		part = strings.TrimSpace(part)
		if !slices.Contains(RuleNames(), part) {
			return "", fmt.Errorf("%q: %w", part, ErrUnknownRule)
		}
		seen[part] = true
	}
	parts := make([]string, 0, len(seen))
	for _, n := range RuleNames() {
		if seen[n] {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "+"), nil
}

// RuleByName resolves a rule name such as "delivery" or a "+"-joined
// combination such as "weekend+holidays". The holidays rule is backed by the
// given set, which may be nil.
func RuleByName(name string, holidays *HolidaySet) (ExclusionPredicate, error) {
	canonical, err := CanonicalRule(name)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(canonical, "+")
	preds := make([]ExclusionPredicate, 0, len(parts))
	for _, part := range parts {
		switch part {
		case RuleNever:
			preds = append(preds, Never)
		case RuleWeekend:
			preds = append(preds, Weekend)
		case RuleDelivery:
			preds = append(preds, DeliveryHoliday)
		case RuleHolidays:
			preds = append(preds, holidays.Contains)
		case RuleUSFederal:
			preds = append(preds, USFederalHolidays())
		}
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return Any(preds...), nil
}
