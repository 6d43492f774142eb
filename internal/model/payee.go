package model

import "time"

// Payee is the counterparty on a transaction. Names are unique per user.
type Payee struct {
	CreatedAt         time.Time
	ID                string
	UserID            string
	Name              string
	DefaultCategoryID string // learned from expense history; empty when unset
}
