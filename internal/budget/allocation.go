package budget

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Income sums income transactions dated within month.
func Income(month string, txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range txns {
		if txns[i].IsIncome() && txns[i].InMonth(month) {
			total = total.Add(txns[i].Amount)
		}
	}
	return total
}

// TotalAssigned sums allocations for month.
func TotalAssigned(month string, allocs []model.Allocation) decimal.Decimal {
	total := decimal.Zero
	for i := range allocs {
		if allocs[i].Month == month {
			total = total.Add(allocs[i].Assigned)
		}
	}
	return total
}

// ReadyToAssign is the month's income minus the month's assignments.
// A negative result means the month is over-assigned. Nothing rolls over
// from other months.
func ReadyToAssign(month string, txns []model.Transaction, allocs []model.Allocation) decimal.Decimal {
	return Income(month, txns).Sub(TotalAssigned(month, allocs))
}

// CategorySpent sums expenses in categoryID dated within month.
func CategorySpent(month, categoryID string, txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for i := range txns {
		t := &txns[i]
		if t.IsExpense() && t.CategoryID == categoryID && t.InMonth(month) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// AssignedAmount returns what was assigned to categoryID for month, or zero.
func AssignedAmount(month, categoryID string, allocs []model.Allocation) decimal.Decimal {
	total := decimal.Zero
	for i := range allocs {
		if allocs[i].Month == month && allocs[i].CategoryID == categoryID {
			total = total.Add(allocs[i].Assigned)
		}
	}
	return total
}

// CategoryAvailable is the assigned amount minus spending for the month.
func CategoryAvailable(month, categoryID string, allocs []model.Allocation, txns []model.Transaction) decimal.Decimal {
	return AssignedAmount(month, categoryID, allocs).Sub(CategorySpent(month, categoryID, txns))
}
