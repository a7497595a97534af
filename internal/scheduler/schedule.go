// Package scheduler fires recurring triggers on a timer, independently of
// the request-serving path.
//
// Timing and computation are decoupled: a Schedule only decides when the next
// firing happens, and a Trigger's Run does the work for a given instant, so
// either can be tested without the other.
package scheduler

import (
	"fmt"
	"time"
)

// Schedule is the strategy deciding when a trigger fires next.
type Schedule interface {
	// Next returns the first firing instant strictly after after.
	Next(after time.Time) time.Time
}

// Every fires at a fixed interval measured from the previous firing.
type Every time.Duration

// Weekly fires once every seven days.
const Weekly = Every(7 * 24 * time.Hour)

func (e Every) Next(after time.Time) time.Time {
	return after.Add(time.Duration(e))
}

func (e Every) String() string {
	return "every " + time.Duration(e).String()
}

// MonthStart fires at midnight on the first day of each month.
type MonthStart struct {
	Location *time.Location
}

func (m MonthStart) Next(after time.Time) time.Time {
	loc := m.Location
	if loc == nil {
		loc = time.UTC
	}
	t := after.In(loc)
	// time.Date normalises month 13 into January of the next year.
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, loc)
}

func (m MonthStart) String() string {
	loc := m.Location
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("monthly at 00:00 on day 1 (%s)", loc)
}
