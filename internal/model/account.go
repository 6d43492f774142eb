package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

// Account types.
const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCash     AccountType = "cash"
	AccountTypeCredit   AccountType = "credit"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCash, AccountTypeCredit:
		return true
	}
	return false
}

// Account holds money. Its balance is never stored; it is derived from the
// opening balance and the account's transactions.
type Account struct {
	CreatedAt      time.Time
	ID             string
	UserID         string
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal
}

// Normalize rounds the opening balance and trims the name.
func (a *Account) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.OpeningBalance = RoundAmount(a.OpeningBalance)
}

// Validate checks required fields. Opening balances may be negative.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if !a.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be checking, savings, cash, or credit"}
	}
	return nil
}
