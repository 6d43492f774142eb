package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestMonthBudget(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	groceries := f.db.MustCategory("Groceries")
	rent := f.db.MustCategory("Rent")

	f.income(t, "Employer", "3000", "2024-03-01")
	f.income(t, "Employer", "500", "2024-02-15")
	_, err := f.svc.SetAllocation(ctx, groceries.ID, "2024-03", decimal.NewFromInt(400))
	require.NoError(t, err)
	_, err = f.svc.SetAllocation(ctx, rent.ID, "2024-03", decimal.NewFromInt(1200))
	require.NoError(t, err)
	f.expense(t, "Corner Store", groceries.ID, "300", "2024-03-05")
	f.expense(t, "New Place", "", "20", "2024-03-06")
	f.expense(t, "Corner Store", groceries.ID, "99", "2024-04-01")

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	summary, err := f.svc.MonthBudget(ctx, "2024-03", now)
	require.NoError(t, err)

	assert.Equal(t, "3000", summary.Income.String())
	assert.Equal(t, "1600", summary.Assigned.String())
	assert.Equal(t, "1400", summary.ReadyToAssign.String())
	assert.Equal(t, "320", summary.Spent.String())
	assert.Equal(t, 1, summary.UncategorizedCount)
	assert.Equal(t, 10, summary.DayOfMonth)
	assert.Equal(t, 31, summary.DaysInMonth)

	var line budget.CategoryLine
	for _, l := range summary.Lines {
		if l.CategoryID == groceries.ID {
			line = l
		}
	}
	assert.Equal(t, "300", line.Spent.String())
	assert.Equal(t, "100", line.Available.String())
	assert.Equal(t, budget.PaceOver, line.Prediction.Status)

	nudges, err := f.svc.Nudges(ctx, "2024-03", now)
	require.NoError(t, err)
	require.Len(t, nudges, 3)
	assert.Equal(t, budget.NudgeOverspend, nudges[0].Kind)
	assert.Equal(t, groceries.ID, nudges[0].CategoryID)
	assert.Equal(t, "$1400 unassigned", nudges[1].Title)
	assert.Equal(t, "1 uncategorized transaction", nudges[2].Title)
}

func TestMonthBudget_PastMonthUsesFullLength(t *testing.T) {
	f := newFixture(t, Config{})

	summary, err := f.svc.MonthBudget(context.Background(), "2024-02", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 29, summary.DayOfMonth)
	assert.Equal(t, 29, summary.DaysInMonth)
	assert.True(t, summary.ReadyToAssign.IsZero())
}

func TestMonthBudget_InvalidMonth(t *testing.T) {
	f := newFixture(t, Config{})
	_, err := f.svc.MonthBudget(context.Background(), "2024-13", time.Now())
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAccountBalances(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	f.income(t, "Employer", "250.50", "2024-03-01")
	f.expense(t, "Shop", "", "100.25", "2024-03-02")

	balance, err := f.svc.AccountBalance(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1150.25", balance.StringFixed(2))

	savings, err := f.svc.AddAccount(ctx, "Savings", "savings", decimal.NewFromInt(50))
	require.NoError(t, err)

	balances, err := f.svc.AccountBalances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	byID := map[string]string{}
	for _, b := range balances {
		byID[b.Account.ID] = b.Balance.StringFixed(2)
	}
	assert.Equal(t, "1150.25", byID[f.account.ID])
	assert.Equal(t, "50.00", byID[savings.ID])

	_, err = f.svc.AccountBalance(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, f.svc.DeleteAccount(ctx, f.account.ID))
	txns, err := f.svc.Transactions(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestAddAccount_Validation(t *testing.T) {
	f := newFixture(t, Config{})
	_, err := f.svc.AddAccount(context.Background(), "  ", "checking", decimal.Zero)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()
	f.expense(t, "Grocer", f.db.MustCategory("Groceries").ID, "100", "2024-03-02")

	name := "  Joint checking "
	opening := decimal.RequireFromString("1500.005")
	updated, err := f.svc.UpdateAccount(ctx, f.account.ID, AccountChanges{Name: &name, OpeningBalance: &opening})
	require.NoError(t, err)
	assert.Equal(t, "Joint checking", updated.Name)
	assert.Equal(t, model.AccountTypeChecking, updated.Type)

	balance, err := f.svc.AccountBalance(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1400.01", balance.StringFixed(2))

	bad := model.AccountType("brokerage")
	_, err = f.svc.UpdateAccount(ctx, f.account.ID, AccountChanges{Type: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.UpdateAccount(ctx, "missing", AccountChanges{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
