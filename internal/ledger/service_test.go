package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/llm"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/template"
	"github.com/Veraticus/the-budget-must-balance/internal/testutil"
)

type mockAssistant struct {
	mock.Mock
}

func (m *mockAssistant) Complete(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockCheckpointer struct {
	mock.Mock
}

func (m *mockCheckpointer) AutoCheckpoint(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

// fixture is a service over a seeded in-memory database with one checking
// account. Seeded categories: Rent, Renters insurance, Groceries, Dining out,
// Uncategorized.
type fixture struct {
	svc     *Service
	db      *testutil.TestDB
	account model.Account
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t, template.Selections{
		Home:            "rent",
		RegularSpending: []string{"groceries"},
		FunSpending:     []string{"dining-out"},
	})
	cfg.UserID = db.UserID
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &fixture{
		svc:     New(db.Storage, cfg),
		db:      db,
		account: db.MustAccount("Checking", model.AccountTypeChecking, "1000"),
	}
}

func (f *fixture) expense(t *testing.T, payee, categoryID, amount, date string) *model.Transaction {
	t.Helper()
	txn, err := f.svc.RecordTransaction(context.Background(), NewTransaction{
		AccountID:  f.account.ID,
		PayeeName:  payee,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		Type:       model.TransactionTypeExpense,
	})
	require.NoError(t, err)
	return txn
}

func (f *fixture) income(t *testing.T, payee, amount, date string) *model.Transaction {
	t.Helper()
	txn, err := f.svc.RecordTransaction(context.Background(), NewTransaction{
		AccountID: f.account.ID,
		PayeeName: payee,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		Type:      model.TransactionTypeIncome,
	})
	require.NoError(t, err)
	return txn
}

func (f *fixture) payee(t *testing.T, name string) model.Payee {
	t.Helper()
	payees, err := f.db.Storage.ListPayees(context.Background(), f.db.UserID)
	require.NoError(t, err)
	for _, p := range payees {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("payee %q not found", name)
	return model.Payee{}
}

func TestNew_Defaults(t *testing.T) {
	svc := New(nil, Config{})
	require.Equal(t, DefaultUserID, svc.UserID())
	require.NotNil(t, svc.logger)
}
