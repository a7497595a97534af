package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validator admits candidates into the store.
type Validator struct {
	Registry *Registry
	Now      func() time.Time
	NewID    func() string
}

func NewValidator(reg *Registry) *Validator {
	return &Validator{Registry: reg, Now: time.Now, NewID: newID}
}

// Validate checks category then amount, defaults the date and assigns an ID.
// The first failing rule decides the error.
func (v *Validator) Validate(c Candidate) (Expense, error) {
	category := strings.TrimSpace(c.Category)
	if category == "" || !v.Registry.Contains(category) {
		return Expense{}, ErrInvalidCategory
	}

	amount, err := ParseAmount(c.Amount)
	if err != nil {
		return Expense{}, err
	}

	date := strings.TrimSpace(c.Date)
	if date == "" {
		date = FormatDate(v.now())
	}

	return Expense{
		ID:       v.id(),
		Category: category,
		Amount:   amount,
		Date:     date,
	}, nil
}

// ParseAmount parses a strictly positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

func (v *Validator) id() string {
	if v.NewID == nil {
		return newID()
	}
	return v.NewID()
}

// newID returns a time-ordered UUIDv7, falling back to a random UUID.
func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
