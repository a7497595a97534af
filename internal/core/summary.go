package core

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var dollarPrinter = message.NewPrinter(language.AmericanEnglish)

// Summary labels emitted by the periodic triggers.
const (
	WeeklySummary  = "Weekly"
	MonthlySummary = "Monthly"
)

// Summary is one scheduled total handed to a sink.
type Summary struct {
	Label   string
	Total   decimal.Decimal
	FiredAt time.Time
}

// String renders the summary line, e.g. "Weekly Expense Summary: $15.00".
func (s Summary) String() string {
	return s.Label + " Expense Summary: " + FormatDollars(s.Total)
}

// FormatDollars formats d as a dollar amount with two decimals and
// thousands separators. Whole dollars go through number.Decimal as an int64
// and the cents come from d itself, so no float rounding is involved.
func FormatDollars(d decimal.Decimal) string {
	d = d.Round(2)
	abs := d.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).StringFixed(2) // "0.xx"

	s := dollarPrinter.Sprintf("$%v", number.Decimal(whole.IntPart())) + cents[1:]
	if d.IsNegative() {
		return "-" + s
	}
	return s
}
