package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/llm"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

var march10 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestQuickAdd(t *testing.T) {
	assistant := &mockAssistant{}
	f := newFixture(t, Config{Assistant: assistant})
	groceries := f.db.MustCategory("Groceries")

	assistant.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.MaxTokens == llm.QuickAddMaxTokens &&
			strings.Contains(req.Prompt, "12.50 at the corner store for groceries") &&
			strings.Contains(req.Prompt, "Groceries") &&
			strings.Contains(req.Prompt, "2024-03-10")
	})).Return(`{"amount": 12.5, "payeeName": "Corner Store", "categoryName": "groceries", "date": "2024-03-10"}`, nil).Once()

	txn, err := f.svc.QuickAdd(context.Background(), "12.50 at the corner store for groceries", f.account.ID, march10)
	require.NoError(t, err)
	assert.Equal(t, "12.5", txn.Amount.String())
	assert.Equal(t, groceries.ID, txn.CategoryID)
	assert.Equal(t, "2024-03-10", txn.Date)
	assert.Equal(t, model.TransactionTypeExpense, txn.Type)
	assert.Equal(t, f.payee(t, "Corner Store").ID, txn.PayeeID)
	assistant.AssertExpectations(t)
}

func TestQuickAdd_UnknownCategoryLeavesUncategorized(t *testing.T) {
	assistant := &mockAssistant{}
	f := newFixture(t, Config{Assistant: assistant})

	assistant.On("Complete", mock.Anything, mock.Anything).
		Return(`{"amount": 30, "payeeName": "Vet", "categoryName": "Pets", "date": "2024-03-09"}`, nil)

	txn, err := f.svc.QuickAdd(context.Background(), "30 at the vet", f.account.ID, march10)
	require.NoError(t, err)
	assert.Empty(t, txn.CategoryID)
}

func TestQuickAdd_InvalidResponseWritesNothing(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "I spent twelve dollars"},
		{name: "negative amount", response: `{"amount": -5, "payeeName": "Shop", "date": "2024-03-10"}`},
		{name: "amount as string", response: `{"amount": "5", "payeeName": "Shop", "date": "2024-03-10"}`},
		{name: "empty payee", response: `{"amount": 5, "payeeName": " ", "date": "2024-03-10"}`},
		{name: "bad date", response: `{"amount": 5, "payeeName": "Shop", "date": "March 10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assistant := &mockAssistant{}
			f := newFixture(t, Config{Assistant: assistant})
			assistant.On("Complete", mock.Anything, mock.Anything).Return(tt.response, nil)

			_, err := f.svc.QuickAdd(context.Background(), "something", f.account.ID, march10)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrExternalParse)

			txns, err := f.svc.Transactions(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, txns)
		})
	}
}

func TestQuickAdd_CompletionError(t *testing.T) {
	assistant := &mockAssistant{}
	f := newFixture(t, Config{Assistant: assistant})
	assistant.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("boom: %w", common.ErrMaxRetries))

	_, err := f.svc.QuickAdd(context.Background(), "5 coffee", f.account.ID, march10)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
}

func TestAssistantRequired(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	_, err := f.svc.ParseQuickAdd(ctx, "5 coffee", march10)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
	_, err = f.svc.SuggestBudget(ctx, "2024-03")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
	_, err = f.svc.MonthlyReview(ctx, "2024-03")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestSuggestBudget(t *testing.T) {
	assistant := &mockAssistant{}
	f := newFixture(t, Config{Assistant: assistant})
	ctx := context.Background()
	groceries := f.db.MustCategory("Groceries")

	_, err := f.svc.SetAllocation(ctx, groceries.ID, "2024-02", decimal.NewFromInt(300))
	require.NoError(t, err)
	f.expense(t, "Corner Store", groceries.ID, "120", "2024-02-10")
	f.income(t, "Employer", "3000", "2024-03-01")

	response := fmt.Sprintf(`{"allocations": [
		{"categoryId": %q, "categoryName": "Groceries", "suggested": 250, "lastMonthSpent": 120, "reasoning": "spent less than planned"},
		{"categoryId": "gone", "categoryName": "Ghost", "suggested": 10, "lastMonthSpent": 0, "reasoning": "n/a"}
	], "summary": "Trim groceries."}`, groceries.ID)

	assistant.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.System == llm.SuggestionsSystemPrompt &&
			req.MaxTokens == llm.SuggestionsMaxTokens &&
			strings.Contains(req.Prompt, "Total monthly income: $3000") &&
			strings.Contains(req.Prompt, "- Groceries (Food): allocated $300, spent $120")
	})).Return(response, nil).Once()

	suggestions, err := f.svc.SuggestBudget(ctx, "2024-03")
	require.NoError(t, err)
	require.Len(t, suggestions.Allocations, 2)
	assert.Equal(t, "Trim groceries.", suggestions.Summary)
	assistant.AssertExpectations(t)

	applied, err := f.svc.ApplySuggestions(ctx, "2024-03", suggestions)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	allocs, err := f.db.Storage.ListAllocationsByMonth(ctx, f.db.UserID, "2024-03")
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "250", allocs[0].Assigned.String())
}

func TestMonthlyReview(t *testing.T) {
	assistant := &mockAssistant{}
	f := newFixture(t, Config{Assistant: assistant})
	ctx := context.Background()
	dining := f.db.MustCategory("Dining out")

	f.expense(t, "Cafe", dining.ID, "80", "2024-03-03")
	f.expense(t, "Cafe", dining.ID, "40", "2024-02-03")

	assistant.On("Complete", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.System == llm.ReviewSystemPrompt &&
			req.MaxTokens == llm.ReviewMaxTokens &&
			strings.Contains(req.Prompt, "2024-03") &&
			strings.Contains(req.Prompt, "Dining out")
	})).Return("```json\n"+`{"allocations": [], "summary": "Dining doubled."}`+"\n```", nil).Once()

	review, err := f.svc.MonthlyReview(ctx, "2024-03")
	require.NoError(t, err)
	assert.Empty(t, review.Allocations)
	assert.Equal(t, "Dining doubled.", review.Summary)
	assistant.AssertExpectations(t)

	_, err = f.svc.MonthlyReview(ctx, "bad")
	assert.ErrorIs(t, err, common.ErrValidation)
}
