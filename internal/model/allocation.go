package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Allocation is the amount assigned to a category for one month.
// There is at most one allocation per (category, month).
type Allocation struct {
	UpdatedAt  time.Time
	ID         string
	UserID     string
	CategoryID string
	Month      string // YYYY-MM
	Assigned   decimal.Decimal
}

// Normalize rounds the assigned amount.
func (a *Allocation) Normalize() {
	a.Assigned = RoundAmount(a.Assigned)
	a.Month = strings.TrimSpace(a.Month)
}

// Validate checks required fields. Zero is a valid assignment; negative is not.
func (a *Allocation) Validate() error {
	if strings.TrimSpace(a.CategoryID) == "" {
		return &ValidationError{Field: "category_id", Reason: "is required"}
	}
	if a.Assigned.IsNegative() {
		return &ValidationError{Field: "assigned", Reason: "must not be negative"}
	}
	return ValidateMonth(a.Month)
}
