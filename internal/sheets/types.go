package sheets

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
)

// BudgetRow is one category line of the exported month.
type BudgetRow struct {
	Group     string
	Category  string
	Status    string
	Assigned  decimal.Decimal
	Spent     decimal.Decimal
	Available decimal.Decimal
}

// BudgetTab is everything written to a month's tab.
type BudgetTab struct {
	Month         string
	Rows          []BudgetRow
	Income        decimal.Decimal
	Assigned      decimal.Decimal
	Spent         decimal.Decimal
	ReadyToAssign decimal.Decimal
}

// FromSummary converts a month summary into a tab.
func FromSummary(s budget.MonthSummary) BudgetTab {
	tab := BudgetTab{
		Month:         s.Month,
		Rows:          make([]BudgetRow, 0, len(s.Lines)),
		Income:        s.Income,
		Assigned:      s.Assigned,
		Spent:         s.Spent,
		ReadyToAssign: s.ReadyToAssign,
	}
	for _, line := range s.Lines {
		tab.Rows = append(tab.Rows, BudgetRow{
			Group:     line.GroupName,
			Category:  line.CategoryName,
			Status:    string(line.Prediction.Status),
			Assigned:  line.Assigned,
			Spent:     line.Spent,
			Available: line.Available,
		})
	}
	return tab
}
