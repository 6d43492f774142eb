package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// UpsertAllocation sets the assigned amount for (category, month). A second
// call for the same key updates the existing row; the ID of the stored row
// is written back to allocation.
func (s *SQLiteStorage) UpsertAllocation(ctx context.Context, allocation *model.Allocation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(allocation, "allocation"); err != nil {
		return err
	}
	if err := validateString(allocation.UserID, "userID"); err != nil {
		return err
	}
	allocation.Normalize()
	if err := allocation.Validate(); err != nil {
		return err
	}

	allocation.UpdatedAt = time.Now()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO allocations (id, user_id, category_id, month, assigned, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category_id, month) DO UPDATE SET
			assigned = excluded.assigned,
			updated_at = excluded.updated_at
		RETURNING id
	`, newID(), allocation.UserID, allocation.CategoryID, allocation.Month, allocation.Assigned, allocation.UpdatedAt).
		Scan(&allocation.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert allocation: %w", err)
	}
	return nil
}

// ListAllocationsByMonth returns a user's allocations for month.
func (s *SQLiteStorage) ListAllocationsByMonth(ctx context.Context, userID, month string) ([]model.Allocation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := model.ValidateMonth(month); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category_id, month, assigned, updated_at
		FROM allocations
		WHERE user_id = ? AND month = ?
		ORDER BY rowid
	`, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var allocations []model.Allocation
	for rows.Next() {
		var a model.Allocation
		if err := rows.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Month, &a.Assigned, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}
