// Package sched is the scheduling core: priority scoring, greedy
// capacity-filling allocation, task splitting across days, and collision-free
// vertical placement of same-day sub-tasks. The whole package is pure — one
// scheduling run is one function call over immutable inputs, with no I/O and
// no clock reads (callers inject the reference date).
package sched

import (
	"fmt"
	"strings"
	"time"
)

// Date is a civil calendar date in YYYY-MM-DD form. All date arithmetic in
// the scheduler operates on calendar dates, never timestamps, so results
// cannot drift across midnight or timezone boundaries. The ISO form also
// makes Date ordering plain string ordering.
type Date string

// ParseDate validates a YYYY-MM-DD string and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q — expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format("2006-01-02"))
}

// Today returns the calendar date of the given instant. Callers pass
// time.Now() at the boundary; the core itself never reads the clock.
func Today(now time.Time) Date {
	return DateOf(now)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// Time returns the date as a UTC midnight instant. UTC keeps day arithmetic
// exact: no DST transition can add or remove hours between two midnights.
func (d Date) Time() time.Time {
	t, err := time.Parse("2006-01-02", string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// DaysBetween returns the signed number of calendar days from one date to
// another: positive when to is later than from, negative when earlier.
func DaysBetween(from, to Date) int {
	return int(to.Time().Sub(from.Time()) / (24 * time.Hour))
}
