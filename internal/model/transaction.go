// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of money movement.
type TransactionType string

const (
	// TransactionTypeExpense is money leaving an account.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeIncome is money entering an account.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeTransfer is declared but carries no balance effect.
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeIncome, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is a single ledger entry. Amount is always a non-negative
// magnitude; Type carries the direction.
type Transaction struct {
	CreatedAt  time.Time
	ID         string
	UserID     string
	AccountID  string
	PayeeID    string
	CategoryID string // empty when uncategorized
	Date       string // YYYY-MM-DD
	Notes      string
	ImportID   string // statement fingerprint; empty for manual entries
	Type       TransactionType
	Amount     decimal.Decimal
}

// InMonth reports whether the transaction date falls in month (YYYY-MM).
func (t *Transaction) InMonth(month string) bool {
	return strings.HasPrefix(t.Date, month)
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// Normalize rounds the amount and trims free-text fields.
func (t *Transaction) Normalize() {
	t.Amount = RoundAmount(t.Amount)
	t.Notes = strings.TrimSpace(t.Notes)
	t.Date = strings.TrimSpace(t.Date)
}

// Validate checks the transaction's own fields. Reference fields other than
// AccountID are optional.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.AccountID) == "" {
		return &ValidationError{Field: "account_id", Reason: "is required"}
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be expense, income, or transfer"}
	}
	if err := ValidatePositiveAmount("amount", t.Amount); err != nil {
		return err
	}
	return ValidateDate(t.Date)
}
