package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

const transactionColumns = `id, user_id, account_id, payee_id, category_id, amount, date, type, notes, import_id, created_at`

// CreateTransaction inserts a transaction. The amount is rounded before it is stored.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(txn, "transaction"); err != nil {
		return err
	}
	if err := validateString(txn.UserID, "userID"); err != nil {
		return err
	}
	txn.Normalize()
	if err := txn.Validate(); err != nil {
		return err
	}

	if txn.ID == "" {
		txn.ID = newID()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.ID,
		txn.UserID,
		txn.AccountID,
		nullString(txn.PayeeID),
		nullString(txn.CategoryID),
		txn.Amount,
		txn.Date,
		string(txn.Type),
		nullString(txn.Notes),
		nullString(txn.ImportID),
		txn.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("transaction %s: %w", txn.ImportID, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// UpdateTransaction rewrites every mutable field of a transaction.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(txn, "transaction"); err != nil {
		return err
	}
	if err := validateString(txn.ID, "id"); err != nil {
		return err
	}
	txn.Normalize()
	if err := txn.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = ?, payee_id = ?, category_id = ?, amount = ?, date = ?, type = ?, notes = ?
		WHERE id = ?
	`,
		txn.AccountID,
		nullString(txn.PayeeID),
		nullString(txn.CategoryID),
		txn.Amount,
		txn.Date,
		string(txn.Type),
		nullString(txn.Notes),
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireAffected(result, "transaction", txn.ID)
}

// DeleteTransaction removes a transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireAffected(result, "transaction", id)
}

// ListTransactions returns all of a user's transactions in date order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ?
		ORDER BY date, rowid
	`, userID)
}

// ListTransactionsByMonth returns a user's transactions whose date starts with month.
func (s *SQLiteStorage) ListTransactionsByMonth(ctx context.Context, userID, month string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := model.ValidateMonth(month); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = ? AND date LIKE ?
		ORDER BY date, rowid
	`, userID, month+"-%")
}

// ListTransactionsByAccount returns an account's transactions in date order.
func (s *SQLiteStorage) ListTransactionsByAccount(ctx context.Context, accountID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = ?
		ORDER BY date, rowid
	`, accountID)
}

// ListExpensesByPayee returns a payee's expenses in insertion order.
func (s *SQLiteStorage) ListExpensesByPayee(ctx context.Context, payeeID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(payeeID, "payeeID"); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, s.db, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE payee_id = ? AND type = 'expense'
		ORDER BY rowid
	`, payeeID)
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, q queryable, query string, args ...any) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		payeeID    sql.NullString
		categoryID sql.NullString
		notes      sql.NullString
		importID   sql.NullString
		txnType    string
	)
	if err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.AccountID,
		&payeeID,
		&categoryID,
		&txn.Amount,
		&txn.Date,
		&txnType,
		&notes,
		&importID,
		&txn.CreatedAt,
	); err != nil {
		return nil, err
	}
	txn.PayeeID = payeeID.String
	txn.CategoryID = categoryID.String
	txn.Notes = notes.String
	txn.ImportID = importID.String
	txn.Type = model.TransactionType(txnType)
	return &txn, nil
}
