package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ordered"
)

// Token budgets per feature.
const (
	QuickAddMaxTokens    = 200
	SuggestionsMaxTokens = 2000
	ReviewMaxTokens      = 3000
)

// SuggestionsSystemPrompt instructs the collaborator to answer with suggestions JSON.
const SuggestionsSystemPrompt = `You are a budget advisor. Given spending history, suggest budget allocations for the new month. ` +
	`Return JSON only, no markdown fences. The response must be a JSON object with "allocations" array ` +
	`(each has categoryId, categoryName, suggested amount as number, lastMonthSpent as number, reasoning string) ` +
	`and a "summary" string with 2-3 sentences of advice.`

// ReviewSystemPrompt instructs the collaborator to answer with a review in the same shape.
const ReviewSystemPrompt = `You are generating a monthly financial review. Return JSON only, no markdown fences. ` +
	`The response must be a JSON object with an "allocations" array proposing next month's amounts ` +
	`(each has categoryId, categoryName, suggested amount as number, lastMonthSpent as number, reasoning string) ` +
	`and a "summary" string covering wins, areas needing attention, and 2-3 actionable suggestions.`

// CategoryContext describes a category to the collaborator.
type CategoryContext struct {
	ID        string
	Name      string
	GroupName string
}

// BuildParsePrompt asks for a quick-add transaction parsed from text.
func BuildParsePrompt(text string, categories, payees []string, today string) string {
	categoryNames := strings.Join(categories, ", ")
	if categoryNames == "" {
		categoryNames = "none"
	}
	payeeNames := strings.Join(payees, ", ")
	if payeeNames == "" {
		payeeNames = "none"
	}

	var b strings.Builder
	b.WriteString("Parse this transaction description into structured data.\n\n")
	fmt.Fprintf(&b, "Input: %q\n\n", text)
	fmt.Fprintf(&b, "Available categories: %s\n", categoryNames)
	fmt.Fprintf(&b, "Known payees: %s\n\n", payeeNames)
	b.WriteString("Return JSON with:\n")
	b.WriteString("- amount: number (positive, the dollar/currency amount)\n")
	b.WriteString("- payeeName: string (the merchant/payee; match to a known payee if close, otherwise use what's described)\n")
	b.WriteString("- categoryName: string or omit (match to an available category if obvious)\n")
	fmt.Fprintf(&b, "- date: string in YYYY-MM-DD format (use today's date if not specified: %s)\n\n", today)
	b.WriteString("Return ONLY valid JSON, no markdown fences or explanation.")
	return b.String()
}

// SuggestionInput is last month's activity used to suggest the next month.
type SuggestionInput struct {
	Categories            []CategoryContext
	LastMonthTransactions []model.Transaction
	LastMonthAllocations  []model.Allocation
	TotalIncome           decimal.Decimal
}

// BuildSuggestionContext renders last month's allocated and spent amounts per category.
func BuildSuggestionContext(in SuggestionInput) string {
	spent := make(map[string]decimal.Decimal)
	for _, t := range in.LastMonthTransactions {
		if t.IsExpense() && t.CategoryID != "" {
			spent[t.CategoryID] = spent[t.CategoryID].Add(t.Amount)
		}
	}

	allocated := make(map[string]decimal.Decimal, len(in.LastMonthAllocations))
	for _, a := range in.LastMonthAllocations {
		allocated[a.CategoryID] = a.Assigned
	}

	lines := []string{
		"Total monthly income: $" + in.TotalIncome.String(),
		"",
		"Last month's categories (allocated vs spent):",
	}
	for _, c := range in.Categories {
		lines = append(lines, fmt.Sprintf("- %s (%s): allocated $%s, spent $%s",
			c.Name, c.GroupName, allocated[c.ID].String(), spent[c.ID].String()))
	}
	return strings.Join(lines, "\n")
}

// ReviewInput is a month's activity plus the previous month's spending.
type ReviewInput struct {
	Month                string
	Categories           []CategoryContext
	Transactions         []model.Transaction
	Allocations          []model.Allocation
	PreviousTransactions []model.Transaction
}

// BuildReviewContext renders totals and a per-category budget vs actual breakdown,
// largest spend first.
func BuildReviewContext(in ReviewInput) string {
	names := make(map[string]string, len(in.Categories))
	for _, c := range in.Categories {
		names[c.ID] = c.Name
	}

	var income, expenses, budgeted, prevExpenses decimal.Decimal
	spending := ordered.NewMap[string, decimal.Decimal](len(in.Categories))
	for _, t := range in.Transactions {
		switch {
		case t.IsIncome():
			income = income.Add(t.Amount)
		case t.IsExpense():
			expenses = expenses.Add(t.Amount)
			if t.CategoryID == "" {
				continue
			}
			name, ok := names[t.CategoryID]
			if !ok {
				name = model.UncategorizedCategory
			}
			spending.Update(name, func(v decimal.Decimal) decimal.Decimal { return v.Add(t.Amount) })
		}
	}

	allocatedByName := make(map[string]decimal.Decimal, len(in.Allocations))
	for _, a := range in.Allocations {
		budgeted = budgeted.Add(a.Assigned)
		name, ok := names[a.CategoryID]
		if !ok {
			name = "Unknown"
		}
		allocatedByName[name] = a.Assigned
	}

	for _, t := range in.PreviousTransactions {
		if t.IsExpense() {
			prevExpenses = prevExpenses.Add(t.Amount)
		}
	}

	type row struct {
		name  string
		spent decimal.Decimal
	}
	rows := make([]row, 0, spending.Len())
	spending.Each(func(name string, spent decimal.Decimal) bool {
		rows = append(rows, row{name: name, spent: spent})
		return true
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].spent.GreaterThan(rows[j].spent)
	})

	lines := []string{
		"Month: " + in.Month,
		"Total Income: $" + income.StringFixed(2),
		"Total Expenses: $" + expenses.StringFixed(2),
		"Total Budgeted: $" + budgeted.StringFixed(2),
		"Net Saved: $" + income.Sub(expenses).StringFixed(2),
		"Previous Month Expenses: $" + prevExpenses.StringFixed(2),
		"",
		"Category Breakdown (budget vs actual):",
	}
	for _, r := range rows {
		b := allocatedByName[r.name]
		diff := b.Sub(r.spent)
		direction := "under"
		if diff.IsNegative() {
			direction = "over"
		}
		lines = append(lines, fmt.Sprintf("- %s: budgeted $%s, spent $%s, %s by $%s",
			r.name, b.StringFixed(2), r.spent.StringFixed(2), direction, diff.Abs().StringFixed(2)))
	}
	return strings.Join(lines, "\n")
}
