package llm

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestBuildParsePrompt(t *testing.T) {
	p := BuildParsePrompt("coffee 4.50 at blue bottle", []string{"Dining out", "Groceries"}, nil, "2025-03-04")

	assert.Contains(t, p, `Input: "coffee 4.50 at blue bottle"`)
	assert.Contains(t, p, "Available categories: Dining out, Groceries")
	assert.Contains(t, p, "Known payees: none")
	assert.Contains(t, p, "use today's date if not specified: 2025-03-04")
}

func TestBuildSuggestionContext(t *testing.T) {
	in := SuggestionInput{
		Categories: []CategoryContext{
			{ID: "g", Name: "Groceries", GroupName: "Food"},
			{ID: "d", Name: "Dining out", GroupName: "Food"},
		},
		LastMonthTransactions: []model.Transaction{
			{CategoryID: "g", Type: model.TransactionTypeExpense, Amount: decimal.RequireFromString("100.25")},
			{CategoryID: "g", Type: model.TransactionTypeExpense, Amount: decimal.RequireFromString("50")},
			{CategoryID: "d", Type: model.TransactionTypeIncome, Amount: decimal.RequireFromString("999")},
		},
		LastMonthAllocations: []model.Allocation{
			{CategoryID: "g", Assigned: decimal.RequireFromString("200")},
		},
		TotalIncome: decimal.RequireFromString("3000"),
	}

	want := "Total monthly income: $3000\n" +
		"\n" +
		"Last month's categories (allocated vs spent):\n" +
		"- Groceries (Food): allocated $200, spent $150.25\n" +
		"- Dining out (Food): allocated $0, spent $0"
	assert.Equal(t, want, BuildSuggestionContext(in))
}

func TestBuildReviewContext(t *testing.T) {
	expense := func(cat, amt string) model.Transaction {
		return model.Transaction{CategoryID: cat, Type: model.TransactionTypeExpense, Amount: decimal.RequireFromString(amt)}
	}

	in := ReviewInput{
		Month: "2025-03",
		Categories: []CategoryContext{
			{ID: "g", Name: "Groceries"},
			{ID: "d", Name: "Dining out"},
		},
		Transactions: []model.Transaction{
			{Type: model.TransactionTypeIncome, Amount: decimal.RequireFromString("1000")},
			expense("d", "40"),
			expense("g", "300"),
			expense("", "10"),
		},
		Allocations: []model.Allocation{
			{CategoryID: "g", Assigned: decimal.RequireFromString("250")},
			{CategoryID: "d", Assigned: decimal.RequireFromString("100")},
		},
		PreviousTransactions: []model.Transaction{expense("g", "275")},
	}

	want := "Month: 2025-03\n" +
		"Total Income: $1000.00\n" +
		"Total Expenses: $350.00\n" +
		"Total Budgeted: $350.00\n" +
		"Net Saved: $650.00\n" +
		"Previous Month Expenses: $275.00\n" +
		"\n" +
		"Category Breakdown (budget vs actual):\n" +
		"- Groceries: budgeted $250.00, spent $300.00, over by $50.00\n" +
		"- Dining out: budgeted $100.00, spent $40.00, under by $60.00"
	assert.Equal(t, want, BuildReviewContext(in))
}
