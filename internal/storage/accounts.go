package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// CreateAccount inserts an account, assigning its ID.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(account, "account"); err != nil {
		return err
	}
	if err := validateString(account.UserID, "userID"); err != nil {
		return err
	}
	account.Normalize()
	if err := account.Validate(); err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = newID()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, opening_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, account.ID, account.UserID, account.Name, string(account.Type), account.OpeningBalance, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, opening_balance, created_at
		FROM accounts
		WHERE id = ?
	`, id)

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("account", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns a user's accounts ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, opening_balance, created_at
		FROM accounts
		WHERE user_id = ?
		ORDER BY name, rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// UpdateAccount rewrites an account's name, type, and opening balance.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(account, "account"); err != nil {
		return err
	}
	if err := validateString(account.ID, "id"); err != nil {
		return err
	}
	account.Normalize()
	if err := account.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ?, opening_balance = ?
		WHERE id = ?
	`, account.Name, string(account.Type), account.OpeningBalance, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireAffected(result, "account", account.ID)
}

// DeleteAccount removes an account together with its transactions.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete account transactions: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return requireAffected(result, "account", id)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		account     model.Account
		accountType string
	)
	if err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&accountType,
		&account.OpeningBalance,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	account.Type = model.AccountType(accountType)
	return &account, nil
}
