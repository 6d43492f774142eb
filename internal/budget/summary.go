package budget

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ordered"
)

// CategoryLine is one row of a month budget.
type CategoryLine struct {
	Prediction   Prediction
	CategoryID   string
	CategoryName string
	GroupID      string
	GroupName    string
	Assigned     decimal.Decimal
	Spent        decimal.Decimal
	Available    decimal.Decimal
}

// MonthSummary is a month's budget: one line per category plus totals.
type MonthSummary struct {
	Month              string
	Lines              []CategoryLine
	Income             decimal.Decimal
	Assigned           decimal.Decimal
	Spent              decimal.Decimal
	ReadyToAssign      decimal.Decimal
	UncategorizedSpent decimal.Decimal
	UncategorizedCount int
	DayOfMonth         int
	DaysInMonth        int
}

// Summarize builds the month budget. Lines follow group sort order, then
// category sort order. Transactions and allocations outside month are ignored.
func Summarize(
	month string,
	groups []model.CategoryGroup,
	categories []model.Category,
	txns []model.Transaction,
	allocs []model.Allocation,
	dayOfMonth, daysInMonth int,
) MonthSummary {
	spentBy := ordered.NewMap[string, decimal.Decimal](len(categories))
	summary := MonthSummary{
		Month:              month,
		Income:             Income(month, txns),
		Assigned:           TotalAssigned(month, allocs),
		Spent:              decimal.Zero,
		UncategorizedSpent: decimal.Zero,
		DayOfMonth:         dayOfMonth,
		DaysInMonth:        daysInMonth,
	}
	summary.ReadyToAssign = summary.Income.Sub(summary.Assigned)

	for i := range txns {
		t := &txns[i]
		if !t.IsExpense() || !t.InMonth(month) {
			continue
		}
		summary.Spent = summary.Spent.Add(t.Amount)
		if t.CategoryID == "" {
			summary.UncategorizedSpent = summary.UncategorizedSpent.Add(t.Amount)
			summary.UncategorizedCount++
			continue
		}
		spentBy.Update(t.CategoryID, func(v decimal.Decimal) decimal.Decimal { return v.Add(t.Amount) })
	}

	assignedBy := ordered.NewMap[string, decimal.Decimal](len(allocs))
	for i := range allocs {
		a := &allocs[i]
		if a.Month != month {
			continue
		}
		assignedBy.Update(a.CategoryID, func(v decimal.Decimal) decimal.Decimal { return v.Add(a.Assigned) })
	}

	groupByID := make(map[string]model.CategoryGroup, len(groups))
	for _, g := range groups {
		groupByID[g.ID] = g
	}

	sorted := make([]model.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		gi, gj := groupByID[sorted[i].GroupID].SortOrder, groupByID[sorted[j].GroupID].SortOrder
		if gi != gj {
			return gi < gj
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	summary.Lines = make([]CategoryLine, 0, len(sorted))
	for _, c := range sorted {
		spent, _ := spentBy.Get(c.ID)
		assigned, _ := assignedBy.Get(c.ID)
		summary.Lines = append(summary.Lines, CategoryLine{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			GroupID:      c.GroupID,
			GroupName:    groupByID[c.GroupID].Name,
			Assigned:     assigned,
			Spent:        spent,
			Available:    assigned.Sub(spent),
			Prediction:   Predict(spent, assigned, dayOfMonth, daysInMonth),
		})
	}

	return summary
}

// SpendingByCategory lists month expenses per category name in first-seen
// order. Uncategorized spending is reported under model.UncategorizedCategory.
func SpendingByCategory(month string, categories []model.Category, txns []model.Transaction) *ordered.Map[string, decimal.Decimal] {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := ordered.NewMap[string, decimal.Decimal](len(categories))
	for i := range txns {
		t := &txns[i]
		if !t.IsExpense() || !t.InMonth(month) {
			continue
		}
		name, ok := names[t.CategoryID]
		if !ok {
			name = model.UncategorizedCategory
		}
		out.Update(name, func(v decimal.Decimal) decimal.Decimal { return v.Add(t.Amount) })
	}
	return out
}
