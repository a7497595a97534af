package core

import "github.com/shopspring/decimal"

// Report holds per-category and per-month totals.
type Report struct {
	// CategoryTotals has one entry per registry label, zero included.
	CategoryTotals map[string]decimal.Decimal
	// MonthlyTotals is keyed by MonthKey and only holds months with expenses.
	MonthlyTotals map[string]decimal.Decimal
}

// Aggregate computes the category and monthly totals of source.
// Records with a category outside the registry only count towards monthly
// totals; records with an unparseable date only count towards category totals.
func Aggregate(source []Expense, reg *Registry) Report {
	r := Report{
		CategoryTotals: make(map[string]decimal.Decimal, reg.Len()),
		MonthlyTotals:  make(map[string]decimal.Decimal),
	}
	for _, label := range reg.Labels() {
		r.CategoryTotals[label] = decimal.Zero
	}

	for _, e := range source {
		if total, ok := r.CategoryTotals[e.Category]; ok {
			r.CategoryTotals[e.Category] = total.Add(e.Amount)
		}
		t, ok := e.Time()
		if !ok {
			continue
		}
		key := MonthKey(t)
		r.MonthlyTotals[key] = r.MonthlyTotals[key].Add(e.Amount)
	}
	return r
}
