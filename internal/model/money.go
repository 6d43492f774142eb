package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the fixed precision for all monetary values.
const AmountPlaces = 2

// RoundAmount rounds to two decimal places, half away from zero.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// ParseAmount parses a user-entered amount and rounds it once.
// A leading currency symbol and thousands separators are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "is required"}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "is not a number: " + s}
	}
	return RoundAmount(d), nil
}

// ValidatePositiveAmount rejects zero and negative amounts.
func ValidatePositiveAmount(field string, d decimal.Decimal) error {
	if !RoundAmount(d).IsPositive() {
		return &ValidationError{Field: field, Reason: "must be greater than zero"}
	}
	return nil
}
