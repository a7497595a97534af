package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeeklyWindow is the trailing window summed by the weekly summary.
const WeeklyWindow = 7 * 24 * time.Hour

// Sum adds up the amounts of source.
func Sum(source []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range source {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalSince sums expenses dated at or after since. Undated records are skipped.
func TotalSince(source []Expense, since time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range source {
		t, ok := e.Time()
		if !ok || t.Before(since) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// TotalInMonth sums expenses in the same calendar month and year as now,
// read in now's location. Expense dates are converted to that location first.
func TotalInMonth(source []Expense, now time.Time) decimal.Decimal {
	loc := now.Location()
	total := decimal.Zero
	for _, e := range source {
		t, ok := e.Time()
		if !ok {
			continue
		}
		t = t.In(loc)
		if t.Year() != now.Year() || t.Month() != now.Month() {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}
