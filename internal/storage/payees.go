package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// GetOrCreatePayee returns the user's payee with exactly this name, creating it
// on first use. Concurrent callers converge on one row.
func (s *SQLiteStorage) GetOrCreatePayee(ctx context.Context, userID, name string) (*model.Payee, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var payee *model.Payee
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payees (id, user_id, name, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, name) DO NOTHING
		`, newID(), userID, name, time.Now())
		if err != nil {
			return fmt.Errorf("failed to create payee: %w", err)
		}

		payee, err = scanPayee(tx.QueryRowContext(ctx, `
			SELECT id, user_id, name, default_category_id, created_at
			FROM payees
			WHERE user_id = ? AND name = ?
		`, userID, name))
		if err != nil {
			return fmt.Errorf("failed to load payee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payee, nil
}

// GetPayee retrieves a payee by ID.
func (s *SQLiteStorage) GetPayee(ctx context.Context, id string) (*model.Payee, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getPayeeTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getPayeeTx(ctx context.Context, q queryable, id string) (*model.Payee, error) {
	payee, err := scanPayee(q.QueryRowContext(ctx, `
		SELECT id, user_id, name, default_category_id, created_at
		FROM payees
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("payee", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payee: %w", err)
	}
	return payee, nil
}

// ListPayees returns a user's payees ordered by name.
func (s *SQLiteStorage) ListPayees(ctx context.Context, userID string) ([]model.Payee, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, default_category_id, created_at
		FROM payees
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payees []model.Payee
	for rows.Next() {
		payee, err := scanPayee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payee: %w", err)
		}
		payees = append(payees, *payee)
	}
	return payees, rows.Err()
}

// SetPayeeDefaultCategory records the learned default category for a payee.
// An empty categoryID clears it.
func (s *SQLiteStorage) SetPayeeDefaultCategory(ctx context.Context, payeeID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(payeeID, "payeeID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE payees SET default_category_id = ? WHERE id = ?
	`, nullString(categoryID), payeeID)
	if err != nil {
		return fmt.Errorf("failed to set payee default category: %w", err)
	}
	return requireAffected(result, "payee", payeeID)
}

func scanPayee(row rowScanner) (*model.Payee, error) {
	var (
		payee           model.Payee
		defaultCategory sql.NullString
	)
	if err := row.Scan(&payee.ID, &payee.UserID, &payee.Name, &defaultCategory, &payee.CreatedAt); err != nil {
		return nil, err
	}
	payee.DefaultCategoryID = defaultCategory.String
	return &payee, nil
}
