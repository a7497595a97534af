package core

import (
	"strings"
	"time"
)

// isoMillis matches the format used for defaulted dates.
const isoMillis = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
}

// ParseDate parses the timestamp formats accepted at the API boundary.
// Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t the way defaulted expense dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// MonthKey is the bucket label for monthly totals, e.g. "March 2024".
// Month names come from the time package and do not depend on the host locale.
func MonthKey(t time.Time) string {
	return t.UTC().Format("January 2006")
}
