package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument is returned when a duration cannot be walked, e.g. a
// negative number of required days.
var ErrInvalidArgument = errors.New("invalid argument")

// ExclusionPredicate reports whether a day is skipped by the business-day
// count. It must be defined for every date and must not depend on state that
// changes while a single ETA is computed.
type ExclusionPredicate func(day time.Time) bool

// ServiceDuration is the number of countable days a service needs together
// with the rule deciding which days count.
type ServiceDuration struct {
	RequiredDays int
	IsExcluded   ExclusionPredicate
}

// ETA returns ComputeETA(start, d.RequiredDays, d.IsExcluded).
func (d ServiceDuration) ETA(start time.Time) (time.Time, error) {
	return ComputeETA(start, d.RequiredDays, d.IsExcluded)
}

// ComputeETA returns the date reached after `requiredDays` non-excluded days
// following `start`. The walk advances exactly one calendar day per step and
// asks isExcluded about every candidate, so runs of excluded days are stepped
// over one by one. The time of day and location of start are preserved.
//
// Zero days returns start unchanged; a negative count is rejected with
// ErrInvalidArgument. A nil predicate excludes nothing. The caller must not
// pass a predicate that excludes every day from some point on: the walk has no
// upper bound.
func ComputeETA(start time.Time, requiredDays int, isExcluded ExclusionPredicate) (time.Time, error) {
	if requiredDays < 0 {
		return time.Time{}, fmt.Errorf("required days %d: %w", requiredDays, ErrInvalidArgument)
	}
	if isExcluded == nil {
		isExcluded = Never
	}

	current := start
	for remaining := requiredDays; remaining > 0; {
		current = current.AddDate(0, 0, 1)
		if !isExcluded(current) {
			remaining--
		}
	}
	return current, nil
}
