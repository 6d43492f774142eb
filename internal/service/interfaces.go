// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

// Storage defines the contract for our persistence layer. Point lookups
// return an error wrapping common.ErrNotFound when the row is absent.
type Storage interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, id string) error

	// Payee operations
	GetOrCreatePayee(ctx context.Context, userID, name string) (*model.Payee, error)
	GetPayee(ctx context.Context, id string) (*model.Payee, error)
	ListPayees(ctx context.Context, userID string) ([]model.Payee, error)
	SetPayeeDefaultCategory(ctx context.Context, payeeID, categoryID string) error

	// Category operations
	CreateGroup(ctx context.Context, group *model.CategoryGroup) error
	GetGroup(ctx context.Context, id string) (*model.CategoryGroup, error)
	ListGroups(ctx context.Context, userID string) ([]model.CategoryGroup, error)
	UpdateGroup(ctx context.Context, group *model.CategoryGroup) error
	ReorderGroups(ctx context.Context, userID string, ids []string) error
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	FindCategoryByName(ctx context.Context, userID, name string) (*model.Category, error)
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ReassignAndDeleteGroup(ctx context.Context, groupID string) error
	EnsureDefaultTaxonomy(ctx context.Context, userID string) (*model.Category, error)
	ApplyTemplate(ctx context.Context, userID string, groups []template.Group) error

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error)
	ListTransactionsByMonth(ctx context.Context, userID, month string) ([]model.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string) ([]model.Transaction, error)
	ListExpensesByPayee(ctx context.Context, payeeID string) ([]model.Transaction, error)

	// Allocation operations
	UpsertAllocation(ctx context.Context, allocation *model.Allocation) error
	ListAllocationsByMonth(ctx context.Context, userID, month string) ([]model.Allocation, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
