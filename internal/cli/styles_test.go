package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":           "$0.00",
		"5":           "$5.00",
		"12.5":        "$12.50",
		"999.99":      "$999.99",
		"1000":        "$1,000.00",
		"1234567.891": "$1,234,567.89",
		"-42.1":       "-$42.10",
		"-1000":       "-$1,000.00",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)))
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("failed"), ErrorIcon)
	assert.Contains(t, FormatTitle("March 2024"), "March 2024")
	assert.Contains(t, RenderBox("Summary", "All good"), "All good")
}
