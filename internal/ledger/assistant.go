package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/llm"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// ParseQuickAdd asks the assistant to turn text into a transaction without
// saving anything. now supplies the default date.
func (s *Service) ParseQuickAdd(ctx context.Context, text string, now time.Time) (llm.QuickAdd, error) {
	assistant, err := s.requireAssistant()
	if err != nil {
		return llm.QuickAdd{}, err
	}
	if text == "" {
		return llm.QuickAdd{}, &model.ValidationError{Field: "text", Reason: "is required"}
	}

	var categories []model.Category
	var payees []model.Payee
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.storage.ListCategories(gctx, s.userID)
		return err
	})
	g.Go(func() error {
		var err error
		payees, err = s.storage.ListPayees(gctx, s.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return llm.QuickAdd{}, fmt.Errorf("failed to load quick-add context: %w", err)
	}

	categoryNames := make([]string, len(categories))
	for i, c := range categories {
		categoryNames[i] = c.Name
	}
	payeeNames := make([]string, len(payees))
	for i, p := range payees {
		payeeNames[i] = p.Name
	}

	raw, err := assistant.Complete(ctx, llm.Request{
		Prompt:    llm.BuildParsePrompt(text, categoryNames, payeeNames, model.FormatDate(now)),
		MaxTokens: llm.QuickAddMaxTokens,
	})
	if err != nil {
		return llm.QuickAdd{}, fmt.Errorf("quick-add completion failed: %w", err)
	}

	return llm.ParseQuickAdd(raw)
}

// QuickAdd parses text and records it as an expense on accountID. A category
// name the assistant returns that matches no category leaves the expense to
// the payee default.
func (s *Service) QuickAdd(ctx context.Context, text, accountID string, now time.Time) (*model.Transaction, error) {
	parsed, err := s.ParseQuickAdd(ctx, text, now)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategoryName(ctx, parsed.CategoryName)
	if err != nil {
		return nil, err
	}

	return s.RecordTransaction(ctx, NewTransaction{
		AccountID:  accountID,
		PayeeName:  parsed.PayeeName,
		CategoryID: categoryID,
		Amount:     parsed.Amount,
		Date:       parsed.Date,
		Type:       model.TransactionTypeExpense,
	})
}

func (s *Service) resolveCategoryName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	category, err := s.storage.FindCategoryByName(ctx, s.userID, name)
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Debug("assistant named an unknown category", "category", name)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return category.ID, nil
}

// categoryContexts pairs each category with its group name, in taxonomy order.
func categoryContexts(groups []model.CategoryGroup, categories []model.Category) []llm.CategoryContext {
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	out := make([]llm.CategoryContext, len(categories))
	for i, c := range categories {
		out[i] = llm.CategoryContext{ID: c.ID, Name: c.Name, GroupName: groupNames[c.GroupID]}
	}
	return out
}

// SuggestBudget asks the assistant for month's allocations based on the
// previous month's allocations and spending and month's income so far.
func (s *Service) SuggestBudget(ctx context.Context, month string) (llm.Suggestions, error) {
	assistant, err := s.requireAssistant()
	if err != nil {
		return llm.Suggestions{}, err
	}
	prev, err := budget.PreviousMonth(month)
	if err != nil {
		return llm.Suggestions{}, err
	}

	current, err := s.loadMonth(ctx, month)
	if err != nil {
		return llm.Suggestions{}, err
	}
	last, err := s.loadMonth(ctx, prev)
	if err != nil {
		return llm.Suggestions{}, err
	}

	prompt := llm.BuildSuggestionContext(llm.SuggestionInput{
		Categories:            categoryContexts(current.groups, current.categories),
		LastMonthTransactions: last.txns,
		LastMonthAllocations:  last.allocations,
		TotalIncome:           budget.Income(month, current.txns),
	})

	raw, err := assistant.Complete(ctx, llm.Request{
		System:    llm.SuggestionsSystemPrompt,
		Prompt:    prompt,
		MaxTokens: llm.SuggestionsMaxTokens,
	})
	if err != nil {
		return llm.Suggestions{}, fmt.Errorf("budget suggestion completion failed: %w", err)
	}

	return llm.ParseSuggestions(raw)
}

// ApplySuggestions saves suggested amounts as month's allocations. Lines for
// unknown categories or with negative amounts are skipped. It returns the
// number of allocations written.
func (s *Service) ApplySuggestions(ctx context.Context, month string, suggestions llm.Suggestions) (int, error) {
	applied := 0
	for _, a := range suggestions.Allocations {
		if a.Suggested.IsNegative() {
			s.logger.Warn("skipping negative suggestion", "category", a.CategoryName)
			continue
		}
		_, err := s.SetAllocation(ctx, a.CategoryID, month, a.Suggested)
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("skipping suggestion for unknown category", "category_id", a.CategoryID, "category", a.CategoryName)
			continue
		}
		if err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// MonthlyReview asks the assistant to review month against its budget and
// the previous month's spending.
func (s *Service) MonthlyReview(ctx context.Context, month string) (llm.Suggestions, error) {
	assistant, err := s.requireAssistant()
	if err != nil {
		return llm.Suggestions{}, err
	}
	prev, err := budget.PreviousMonth(month)
	if err != nil {
		return llm.Suggestions{}, err
	}

	current, err := s.loadMonth(ctx, month)
	if err != nil {
		return llm.Suggestions{}, err
	}
	prevTxns, err := s.storage.ListTransactionsByMonth(ctx, s.userID, prev)
	if err != nil {
		return llm.Suggestions{}, fmt.Errorf("failed to load previous month: %w", err)
	}

	prompt := llm.BuildReviewContext(llm.ReviewInput{
		Month:                month,
		Categories:           categoryContexts(current.groups, current.categories),
		Transactions:         current.txns,
		Allocations:          current.allocations,
		PreviousTransactions: prevTxns,
	})

	raw, err := assistant.Complete(ctx, llm.Request{
		System:    llm.ReviewSystemPrompt,
		Prompt:    prompt,
		MaxTokens: llm.ReviewMaxTokens,
	})
	if err != nil {
		return llm.Suggestions{}, fmt.Errorf("monthly review completion failed: %w", err)
	}

	return llm.ParseReview(raw)
}
