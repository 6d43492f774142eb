// Package testutil provides test helpers that stand up an in-memory ledger
// database seeded with a category taxonomy.
package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

// DefaultUserID is the owner of seeded rows.
const DefaultUserID = "test-user"

// TestDB is a migrated in-memory database with a seeded taxonomy.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	UserID  string
}

// SetupTestDB creates an in-memory database, migrates it, and applies the
// taxonomy built from selections. The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, template.Selections{
//		RegularSpending: []string{"groceries"},
//	})
//	groceries := db.MustCategory("Groceries")
func SetupTestDB(t *testing.T, selections template.Selections) *TestDB {
	t.Helper()
	return SetupTestDBWithGroups(t, template.Build(selections))
}

// SetupTestDBWithGroups is SetupTestDB with an explicit taxonomy.
func SetupTestDBWithGroups(t *testing.T, groups []template.Group) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := store.ApplyTemplate(ctx, DefaultUserID, groups); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}
	if _, err := store.EnsureDefaultTaxonomy(ctx, DefaultUserID); err != nil {
		t.Fatalf("failed to seed default taxonomy: %v", err)
	}

	return &TestDB{Storage: store, UserID: DefaultUserID, t: t}
}

// MustCategory returns the seeded category with the given name or fails the test.
func (db *TestDB) MustCategory(name string) model.Category {
	db.t.Helper()
	category, err := db.Storage.FindCategoryByName(context.Background(), db.UserID, name)
	if err != nil {
		db.t.Fatalf("category %q not seeded: %v", name, err)
	}
	return *category
}

// MustGroup returns the seeded group with the given name or fails the test.
func (db *TestDB) MustGroup(name string) model.CategoryGroup {
	db.t.Helper()
	groups, err := db.Storage.ListGroups(context.Background(), db.UserID)
	if err != nil {
		db.t.Fatalf("failed to list groups: %v", err)
	}
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	db.t.Fatalf("group %q not seeded", name)
	return model.CategoryGroup{}
}

// MustAccount creates an account or fails the test.
func (db *TestDB) MustAccount(name string, accountType model.AccountType, opening string) model.Account {
	db.t.Helper()
	account := &model.Account{
		UserID:         db.UserID,
		Name:           name,
		Type:           accountType,
		OpeningBalance: decimal.RequireFromString(opening),
	}
	if err := db.Storage.CreateAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to create account %q: %v", name, err)
	}
	return *account
}
