// Package budget holds the pure calculators behind the ledger: account
// balances, ready-to-assign, category availability, and spending pace.
// Nothing here performs I/O or reads the wall clock.
package budget

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Balance returns opening plus income minus expenses over txns.
// Transfers have no effect. Order and dates are irrelevant.
func Balance(opening decimal.Decimal, txns []model.Transaction) decimal.Decimal {
	total := opening
	for i := range txns {
		switch txns[i].Type {
		case model.TransactionTypeIncome:
			total = total.Add(txns[i].Amount)
		case model.TransactionTypeExpense:
			total = total.Sub(txns[i].Amount)
		case model.TransactionTypeTransfer:
		}
	}
	return total
}

// AccountBalance restricts txns to the account before computing its balance.
func AccountBalance(acct model.Account, txns []model.Transaction) decimal.Decimal {
	own := make([]model.Transaction, 0, len(txns))
	for i := range txns {
		if txns[i].AccountID == acct.ID {
			own = append(own, txns[i])
		}
	}
	return Balance(acct.OpeningBalance, own)
}
