// Package recurrence turns a recurrence rule into concrete occurrence dates.
//
// Monthly and yearly steps use calendar arithmetic with an explicit policy
// for short months: the day-of-month is clamped to the last day of the target
// month (Jan 31 + 1 month = Feb 29 in a leap year, never Mar 2). Every step
// is computed from the series start, so clamping never compounds: Jan 31
// advanced two months lands on Mar 31, not Mar 29.
package recurrence

import (
	"fmt"
	"time"

	"eventcalendar/internal/domain"
)

// DefaultHorizon is the expansion cutoff when the caller supplies none:
// one calendar year past the series start.
func DefaultHorizon(start time.Time) time.Time {
	return start.AddDate(1, 0, 0)
}

// Expand returns every occurrence of the rule from start (inclusive) up to
// and including horizon. The result is strictly increasing and deterministic.
// An unknown frequency returns domain.ErrInvalidRecurrence rather than a
// partial sequence.
func Expand(start time.Time, freq domain.Frequency, interval int, horizon time.Time) ([]time.Time, error) {
	if interval < 1 {
		interval = 1
	}
	var dates []time.Time
	for i := 0; ; i++ {
		next, err := Step(start, freq, i, interval)
		if err != nil {
			return nil, err
		}
		if next.After(horizon) {
			break
		}
		dates = append(dates, next)
	}
	return dates, nil
}

// Step advances start by n frequency steps of the given interval. The same
// function drives both series expansion and series re-spacing on update, so
// the two paths cannot disagree on spacing.
func Step(start time.Time, freq domain.Frequency, n, interval int) (time.Time, error) {
	if interval < 1 {
		interval = 1
	}
	switch freq {
	case domain.FrequencyDaily:
		return start.AddDate(0, 0, n*interval), nil
	case domain.FrequencyWeekly:
		return start.AddDate(0, 0, 7*n*interval), nil
	case domain.FrequencyMonthly:
		return addMonthsClamped(start, n*interval), nil
	case domain.FrequencyYearly:
		return addMonthsClamped(start, 12*n*interval), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", domain.ErrInvalidRecurrence, freq)
	}
}

// addMonthsClamped advances t by the given number of calendar months,
// clamping the day-of-month to the last day of the target month instead of
// letting time.AddDate roll over into the following month.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
