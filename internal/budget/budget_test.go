package budget

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func txn(typ model.TransactionType, amount, date, category string) model.Transaction {
	return model.Transaction{
		AccountID:  "acct",
		Type:       typ,
		Amount:     d(amount),
		Date:       date,
		CategoryID: category,
	}
}

func TestBalance(t *testing.T) {
	opening := d("100.00")
	assertDecimal(t, "100.00", Balance(opening, nil))

	withIncome := Balance(opening, []model.Transaction{txn(model.TransactionTypeIncome, "25.10", "2024-01-01", "")})
	assertDecimal(t, "125.10", withIncome)

	withExpense := Balance(opening, []model.Transaction{txn(model.TransactionTypeExpense, "40.01", "2024-01-01", "")})
	assertDecimal(t, "59.99", withExpense)

	transferOnly := Balance(opening, []model.Transaction{txn(model.TransactionTypeTransfer, "500", "2024-01-01", "")})
	assertDecimal(t, "100.00", transferOnly)
}

func TestBalance_OrderInvariant(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TransactionTypeIncome, "1000", "2024-01-01", ""),
		txn(model.TransactionTypeExpense, "12.34", "2023-06-15", ""),
		txn(model.TransactionTypeExpense, "0.66", "2025-02-01", ""),
		txn(model.TransactionTypeTransfer, "99", "2024-01-02", ""),
		txn(model.TransactionTypeIncome, "3.5", "2024-03-01", ""),
	}
	want := Balance(d("-50"), txns)
	assertDecimal(t, "940.50", want)

	rng := rand.New(rand.NewSource(7))
	for range 10 {
		shuffled := append([]model.Transaction(nil), txns...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.True(t, want.Equal(Balance(d("-50"), shuffled)))
	}
}

func TestAccountBalance_FiltersByAccount(t *testing.T) {
	acct := model.Account{ID: "a1", OpeningBalance: d("10")}
	txns := []model.Transaction{
		{AccountID: "a1", Type: model.TransactionTypeIncome, Amount: d("5")},
		{AccountID: "a2", Type: model.TransactionTypeIncome, Amount: d("500")},
		{AccountID: "a1", Type: model.TransactionTypeExpense, Amount: d("2")},
	}
	assertDecimal(t, "13", AccountBalance(acct, txns))
}

func TestReadyToAssign(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TransactionTypeIncome, "3000", "2024-03-01", ""),
		txn(model.TransactionTypeIncome, "250.50", "2024-03-20", ""),
		txn(model.TransactionTypeIncome, "9999", "2024-02-28", ""),
		txn(model.TransactionTypeExpense, "100", "2024-03-02", "food"),
		txn(model.TransactionTypeTransfer, "100", "2024-03-02", ""),
	}
	allocs := []model.Allocation{
		{CategoryID: "food", Month: "2024-03", Assigned: d("500")},
		{CategoryID: "rent", Month: "2024-03", Assigned: d("1500")},
		{CategoryID: "rent", Month: "2024-04", Assigned: d("1500")},
	}

	assertDecimal(t, "1250.50", ReadyToAssign("2024-03", txns, allocs))
	assertDecimal(t, "-1500", ReadyToAssign("2024-04", txns, allocs))
	assertDecimal(t, "9999", ReadyToAssign("2024-02", txns, allocs))
}

func TestReadyToAssign_OrderInvariant(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TransactionTypeIncome, "10.10", "2024-05-01", ""),
		txn(model.TransactionTypeIncome, "20.20", "2024-05-11", ""),
		txn(model.TransactionTypeIncome, "30.30", "2024-05-21", ""),
	}
	allocs := []model.Allocation{
		{CategoryID: "a", Month: "2024-05", Assigned: d("1.01")},
		{CategoryID: "b", Month: "2024-05", Assigned: d("2.02")},
	}
	want := ReadyToAssign("2024-05", txns, allocs)
	assertDecimal(t, "57.57", want)

	reversedTxns := []model.Transaction{txns[2], txns[0], txns[1]}
	reversedAllocs := []model.Allocation{allocs[1], allocs[0]}
	assert.True(t, want.Equal(ReadyToAssign("2024-05", reversedTxns, reversedAllocs)))
}

func TestCategorySpent(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TransactionTypeExpense, "40", "2024-03-03", "food"),
		txn(model.TransactionTypeExpense, "2.5", "2024-03-31", "food"),
		txn(model.TransactionTypeIncome, "100", "2024-03-04", "food"),
		txn(model.TransactionTypeTransfer, "100", "2024-03-04", "food"),
		txn(model.TransactionTypeExpense, "7", "2024-04-01", "food"),
		txn(model.TransactionTypeExpense, "9", "2024-03-05", "fun"),
	}

	assertDecimal(t, "42.5", CategorySpent("2024-03", "food", txns))
	assertDecimal(t, "0", CategorySpent("2024-03", "rent", txns))
	assertDecimal(t, "0", CategorySpent("2024-05", "food", txns))
}

func TestCategoryAvailable(t *testing.T) {
	allocs := []model.Allocation{{CategoryID: "food", Month: "2024-03", Assigned: d("300")}}
	txns := []model.Transaction{
		txn(model.TransactionTypeExpense, "120.25", "2024-03-03", "food"),
		txn(model.TransactionTypeExpense, "500", "2024-03-04", "fun"),
	}

	assertDecimal(t, "179.75", CategoryAvailable("2024-03", "food", allocs, txns))
	assertDecimal(t, "-500", CategoryAvailable("2024-03", "fun", allocs, txns))
	assertDecimal(t, "0", AssignedAmount("2024-04", "food", allocs))
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name          string
		spent         string
		allocated     string
		wantProjected string
		wantOver      string
		wantStatus    PaceStatus
		day           int
		days          int
	}{
		{name: "over pace", spent: "200", allocated: "300", day: 10, days: 30, wantProjected: "600", wantOver: "300", wantStatus: PaceOver},
		{name: "under pace", spent: "50", allocated: "300", day: 15, days: 30, wantProjected: "100", wantOver: "-200", wantStatus: PaceUnder},
		{name: "borderline", spent: "140", allocated: "300", day: 15, days: 30, wantProjected: "280", wantOver: "-20", wantStatus: PaceWarning},
		{name: "exactly at band edge is warning", spent: "165", allocated: "300", day: 15, days: 30, wantProjected: "330", wantOver: "30", wantStatus: PaceWarning},
		{name: "not started under", spent: "10", allocated: "300", day: 0, days: 30, wantProjected: "10", wantOver: "-290", wantStatus: PaceUnder},
		{name: "not started over", spent: "400", allocated: "300", day: -1, days: 30, wantProjected: "400", wantOver: "100", wantStatus: PaceOver},
		{name: "nothing allocated but spending", spent: "50", allocated: "0", day: 10, days: 30, wantProjected: "150", wantOver: "150", wantStatus: PaceOver},
		{name: "nothing allocated nothing spent", spent: "0", allocated: "0", day: 10, days: 30, wantProjected: "0", wantOver: "0", wantStatus: PaceUnder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Predict(d(tt.spent), d(tt.allocated), tt.day, tt.days)
			assertDecimal(t, tt.wantProjected, got.Projected)
			assertDecimal(t, tt.wantOver, got.ProjectedOverspend)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestPredict_PacePerDay(t *testing.T) {
	got := Predict(d("200"), d("300"), 10, 30)
	assertDecimal(t, "20", got.PacePerDay)

	got = Predict(d("10"), d("300"), 0, 30)
	assertDecimal(t, "0", got.PacePerDay)
}

func TestMonthUtilities(t *testing.T) {
	next, err := NextMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-01", next)

	prev, err := PreviousMonth("2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2023-12", prev)

	days, err := DaysInMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, 29, days)

	days, err = DaysInMonth("2023-02")
	require.NoError(t, err)
	assert.Equal(t, 28, days)

	_, err = NextMonth("2024-13")
	assert.Error(t, err)

	assert.Equal(t, "2024-03", MonthOf("2024-03-17"))
}

func TestDayOfMonth(t *testing.T) {
	now := time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC)

	day, err := DayOfMonth("2024-03", now)
	require.NoError(t, err)
	assert.Equal(t, 17, day)

	day, err = DayOfMonth("2024-02", now)
	require.NoError(t, err)
	assert.Equal(t, 29, day)

	day, err = DayOfMonth("2024-04", now)
	require.NoError(t, err)
	assert.Equal(t, 30, day)
}

func sampleMonth() ([]model.CategoryGroup, []model.Category, []model.Transaction, []model.Allocation) {
	groups := []model.CategoryGroup{
		{ID: "g-misc", Name: model.MiscellaneousGroup, SortOrder: 1},
		{ID: "g-food", Name: "Food", SortOrder: 0},
	}
	categories := []model.Category{
		{ID: "c-unc", GroupID: "g-misc", Name: model.UncategorizedCategory, SortOrder: 0},
		{ID: "c-dining", GroupID: "g-food", Name: "Dining out", SortOrder: 1},
		{ID: "c-groc", GroupID: "g-food", Name: "Groceries", SortOrder: 0},
	}
	txns := []model.Transaction{
		txn(model.TransactionTypeIncome, "1000", "2024-03-01", ""),
		txn(model.TransactionTypeExpense, "200", "2024-03-02", "c-groc"),
		txn(model.TransactionTypeExpense, "90", "2024-03-05", "c-dining"),
		txn(model.TransactionTypeExpense, "15", "2024-03-06", ""),
		txn(model.TransactionTypeExpense, "999", "2024-02-06", "c-groc"),
	}
	allocs := []model.Allocation{
		{CategoryID: "c-groc", Month: "2024-03", Assigned: d("300")},
		{CategoryID: "c-dining", Month: "2024-03", Assigned: d("100")},
	}
	return groups, categories, txns, allocs
}

func TestSummarize(t *testing.T) {
	groups, categories, txns, allocs := sampleMonth()

	s := Summarize("2024-03", groups, categories, txns, allocs, 10, 31)

	assertDecimal(t, "1000", s.Income)
	assertDecimal(t, "400", s.Assigned)
	assertDecimal(t, "305", s.Spent)
	assertDecimal(t, "600", s.ReadyToAssign)
	assertDecimal(t, "15", s.UncategorizedSpent)
	assert.Equal(t, 1, s.UncategorizedCount)

	require.Len(t, s.Lines, 3)
	assert.Equal(t, "Groceries", s.Lines[0].CategoryName)
	assert.Equal(t, "Food", s.Lines[0].GroupName)
	assert.Equal(t, "Dining out", s.Lines[1].CategoryName)
	assert.Equal(t, model.UncategorizedCategory, s.Lines[2].CategoryName)

	assertDecimal(t, "100", s.Lines[0].Available)
	assertDecimal(t, "620", s.Lines[0].Prediction.Projected)
	assert.Equal(t, PaceOver, s.Lines[0].Prediction.Status)
	assertDecimal(t, "10", s.Lines[1].Available)
	assertDecimal(t, "0", s.Lines[2].Assigned)
}

func TestNudges(t *testing.T) {
	groups, categories, txns, allocs := sampleMonth()
	s := Summarize("2024-03", groups, categories, txns, allocs, 10, 31)

	nudges := Nudges(s)
	require.Len(t, nudges, 3)

	assert.Equal(t, NudgeOverspend, nudges[0].Kind)
	assert.Equal(t, "c-groc", nudges[0].CategoryID)
	assert.Equal(t, "Groceries on pace to overspend", nudges[0].Title)
	assert.Equal(t, "You've spent $200 of $300 with 21 days left. Projected overspend: ~$320.", nudges[0].Description)

	assert.Equal(t, NudgeOverspend, nudges[1].Kind)
	assert.Equal(t, "c-dining", nudges[1].CategoryID)

	assert.Equal(t, NudgeUnassigned, nudges[2].Kind)
	assert.Equal(t, "$600 unassigned", nudges[2].Title)
}

func TestNudges_UncategorizedWhenRoom(t *testing.T) {
	s := MonthSummary{
		ReadyToAssign:      d("0"),
		UncategorizedCount: 2,
	}
	nudges := Nudges(s)
	require.Len(t, nudges, 1)
	assert.Equal(t, NudgeUncategorized, nudges[0].Kind)
	assert.Equal(t, "2 uncategorized transactions", nudges[0].Title)
}

func TestSpendingByCategory(t *testing.T) {
	_, categories, txns, _ := sampleMonth()
	spending := SpendingByCategory("2024-03", categories, txns)
	assert.Equal(t, []string{"Groceries", "Dining out", model.UncategorizedCategory}, spending.Keys())
	v, _ := spending.Get("Groceries")
	assertDecimal(t, "200", v)
}
