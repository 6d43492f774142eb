package ledger

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// monthSnapshot is everything the calculators need for one month.
type monthSnapshot struct {
	groups      []model.CategoryGroup
	categories  []model.Category
	txns        []model.Transaction
	allocations []model.Allocation
}

func (s *Service) loadMonth(ctx context.Context, month string) (*monthSnapshot, error) {
	var snap monthSnapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.groups, err = s.storage.ListGroups(ctx, s.userID)
		if err != nil {
			return fmt.Errorf("failed to load groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.categories, err = s.storage.ListCategories(ctx, s.userID)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.txns, err = s.storage.ListTransactionsByMonth(ctx, s.userID, month)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.allocations, err = s.storage.ListAllocationsByMonth(ctx, s.userID, month)
		if err != nil {
			return fmt.Errorf("failed to load allocations: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// MonthBudget summarizes month as seen at now. Only the month containing now
// is treated as partial for pace prediction.
func (s *Service) MonthBudget(ctx context.Context, month string, now time.Time) (budget.MonthSummary, error) {
	if err := model.ValidateMonth(month); err != nil {
		return budget.MonthSummary{}, err
	}
	day, err := budget.DayOfMonth(month, now)
	if err != nil {
		return budget.MonthSummary{}, err
	}
	days, err := budget.DaysInMonth(month)
	if err != nil {
		return budget.MonthSummary{}, err
	}

	snap, err := s.loadMonth(ctx, month)
	if err != nil {
		return budget.MonthSummary{}, err
	}

	return budget.Summarize(month, snap.groups, snap.categories, snap.txns, snap.allocations, day, days), nil
}

// Nudges returns the attention items for month.
func (s *Service) Nudges(ctx context.Context, month string, now time.Time) ([]budget.Nudge, error) {
	summary, err := s.MonthBudget(ctx, month, now)
	if err != nil {
		return nil, err
	}
	return budget.Nudges(summary), nil
}
