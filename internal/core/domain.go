package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Expense is a single admitted spending record. Records are never mutated
	// after they enter the store.
	Expense struct {
		ID       string
		Category string
		Amount   decimal.Decimal
		Date     string // as supplied, or the creation instant
	}

	// Candidate is the raw, unvalidated input of the create path.
	Candidate struct {
		Category string
		Amount   string
		Date     string
	}

	// Filter narrows a list of expenses. Empty fields are not applied.
	Filter struct {
		Category  string
		StartDate string
		EndDate   string
	}
)

var (
	ErrInvalidCategory = errors.New("invalid or missing category")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
)

// Time parses the expense date. The second result is false when the stored
// value is not a recognised timestamp.
func (e Expense) Time() (time.Time, bool) {
	return ParseDate(e.Date)
}
