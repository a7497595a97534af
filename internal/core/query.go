package core

import (
	"strings"
	"time"
)

// Query returns the expenses of source matching f, in source order.
//
// A category outside the registry is ignored rather than rejected. Date bounds
// are inclusive. Any comparison that involves an unparseable date (on the
// record or on the bound) is false, so such records never pass a date bound.
func Query(source []Expense, f Filter, reg *Registry) []Expense {
	category := strings.TrimSpace(f.Category)
	useCategory := category != "" && reg != nil && reg.Contains(category)
	start, hasStart, startOK := bound(f.StartDate)
	end, hasEnd, endOK := bound(f.EndDate)

	if !useCategory && !hasStart && !hasEnd {
		return source
	}

	out := make([]Expense, 0, len(source))
	for _, e := range source {
		if useCategory && e.Category != category {
			continue
		}
		if hasStart || hasEnd {
			t, ok := e.Time()
			if !ok {
				continue
			}
			if hasStart && (!startOK || t.Before(start)) {
				continue
			}
			if hasEnd && (!endOK || t.After(end)) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// bound reports the parsed value, whether the bound was supplied at all and
// whether it parsed.
func bound(s string) (t time.Time, present, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	t, ok = ParseDate(s)
	return t, true, ok
}
