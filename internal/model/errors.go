package model

import (
	"fmt"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

// ValidationError describes a rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match common.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}
