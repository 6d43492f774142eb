package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// AccountBalance pairs an account with its derived balance.
type AccountBalance struct {
	Account model.Account
	Balance decimal.Decimal
}

// AddAccount creates an account.
func (s *Service) AddAccount(ctx context.Context, name string, accountType model.AccountType, opening decimal.Decimal) (*model.Account, error) {
	account := &model.Account{
		UserID:         s.userID,
		Name:           name,
		Type:           accountType,
		OpeningBalance: opening,
	}
	account.Normalize()
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// AccountChanges lists the fields to change on an account. Nil fields are
// left as they are.
type AccountChanges struct {
	Name           *string
	Type           *model.AccountType
	OpeningBalance *decimal.Decimal
}

// UpdateAccount applies changes to an account. Balances are derived, so a new
// opening balance shifts every balance computed afterwards.
func (s *Service) UpdateAccount(ctx context.Context, id string, changes AccountChanges) (*model.Account, error) {
	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Name != nil {
		account.Name = *changes.Name
	}
	if changes.Type != nil {
		account.Type = *changes.Type
	}
	if changes.OpeningBalance != nil {
		account.OpeningBalance = *changes.OpeningBalance
	}
	account.Normalize()
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeleteAccount removes an account and its transactions.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.storage.DeleteAccount(ctx, id)
}

// AccountBalance derives one account's balance from all of its transactions.
func (s *Service) AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	txns, err := s.storage.ListTransactionsByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load transactions: %w", err)
	}
	return budget.AccountBalance(*account, txns), nil
}

// AccountBalances lists every account with its balance.
func (s *Service) AccountBalances(ctx context.Context) ([]AccountBalance, error) {
	accounts, err := s.storage.ListAccounts(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	txns, err := s.storage.ListTransactions(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	out := make([]AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountBalance{Account: a, Balance: budget.AccountBalance(a, txns)})
	}
	return out, nil
}
