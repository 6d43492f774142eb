package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

const categoryColumns = `c.id, c.user_id, c.group_id, c.name, c.sort_order, c.is_default, c.created_at`

// CreateGroup inserts a category group.
func (s *SQLiteStorage) CreateGroup(ctx context.Context, group *model.CategoryGroup) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(group, "group"); err != nil {
		return err
	}
	if err := validateString(group.UserID, "userID"); err != nil {
		return err
	}
	group.Name = strings.TrimSpace(group.Name)
	if err := group.Validate(); err != nil {
		return err
	}
	return s.createGroupTx(ctx, s.db, group)
}

func (s *SQLiteStorage) createGroupTx(ctx context.Context, q queryable, group *model.CategoryGroup) error {
	if group.ID == "" {
		group.ID = newID()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO category_groups (id, user_id, name, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, group.ID, group.UserID, group.Name, group.SortOrder, group.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("category group %q: %w", group.Name, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to create category group: %w", err)
	}
	return nil
}

// GetGroup retrieves a category group by ID.
func (s *SQLiteStorage) GetGroup(ctx context.Context, id string) (*model.CategoryGroup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getGroupTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getGroupTx(ctx context.Context, q queryable, id string) (*model.CategoryGroup, error) {
	group, err := scanGroup(q.QueryRowContext(ctx, `
		SELECT id, user_id, name, sort_order, created_at
		FROM category_groups
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category group", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category group: %w", err)
	}
	return group, nil
}

func (s *SQLiteStorage) findGroupByNameTx(ctx context.Context, q queryable, userID, name string) (*model.CategoryGroup, error) {
	group, err := scanGroup(q.QueryRowContext(ctx, `
		SELECT id, user_id, name, sort_order, created_at
		FROM category_groups
		WHERE user_id = ? AND name = ?
	`, userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category group", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category group: %w", err)
	}
	return group, nil
}

// ListGroups returns a user's groups in sort order.
func (s *SQLiteStorage) ListGroups(ctx context.Context, userID string) ([]model.CategoryGroup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, sort_order, created_at
		FROM category_groups
		WHERE user_id = ?
		ORDER BY sort_order, name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []model.CategoryGroup
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category group: %w", err)
		}
		groups = append(groups, *group)
	}
	return groups, rows.Err()
}

// UpdateGroup renames a category group. The Miscellaneous group keeps its
// name; a name already used by another of the user's groups is a duplicate.
func (s *SQLiteStorage) UpdateGroup(ctx context.Context, group *model.CategoryGroup) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(group, "group"); err != nil {
		return err
	}
	if err := validateString(group.ID, "id"); err != nil {
		return err
	}
	group.Name = strings.TrimSpace(group.Name)
	if err := group.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.getGroupTx(ctx, tx, group.ID)
		if err != nil {
			return err
		}
		if existing.IsProtected() && group.Name != existing.Name {
			return fmt.Errorf("cannot rename the %s group: %w", model.MiscellaneousGroup, common.ErrInvariantViolation)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE category_groups SET name = ?, sort_order = ? WHERE id = ?
		`, group.Name, group.SortOrder, group.ID)
		if isUniqueViolation(err) {
			return fmt.Errorf("category group %q: %w", group.Name, common.ErrDuplicateEntry)
		}
		if err != nil {
			return fmt.Errorf("failed to update category group: %w", err)
		}
		group.UserID = existing.UserID
		group.CreatedAt = existing.CreatedAt
		return nil
	})
}

// ReorderGroups sets each listed group's sort order to its index in ids,
// atomically. Every ID must be one of the user's groups.
func (s *SQLiteStorage) ReorderGroups(ctx context.Context, userID string, ids []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for i, id := range ids {
			result, err := tx.ExecContext(ctx, `
				UPDATE category_groups SET sort_order = ? WHERE id = ? AND user_id = ?
			`, i, id, userID)
			if err != nil {
				return fmt.Errorf("failed to reorder category group: %w", err)
			}
			if err := requireAffected(result, "category group", id); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateCategory inserts a category into an existing group.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotNil(category, "category"); err != nil {
		return err
	}
	category.Name = strings.TrimSpace(category.Name)
	if err := category.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		group, err := s.getGroupTx(ctx, tx, category.GroupID)
		if err != nil {
			return err
		}
		category.UserID = group.UserID

		var clashes int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM categories WHERE group_id = ? AND lower(name) = lower(?)
		`, category.GroupID, category.Name).Scan(&clashes); err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if clashes > 0 {
			return fmt.Errorf("category %q in %s: %w", category.Name, group.Name, common.ErrDuplicateEntry)
		}
		return s.createCategoryTx(ctx, tx, category)
	})
}

func (s *SQLiteStorage) createCategoryTx(ctx context.Context, q queryable, category *model.Category) error {
	if category.ID == "" {
		category.ID = newID()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, group_id, name, sort_order, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, category.ID, category.UserID, category.GroupID, category.Name, category.SortOrder, category.IsDefault, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getCategoryTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getCategoryTx(ctx context.Context, q queryable, id string) (*model.Category, error) {
	category, err := scanCategory(q.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// FindCategoryByName matches a category name case-insensitively. When several
// groups hold the same name the first in sort order wins.
func (s *SQLiteStorage) FindCategoryByName(ctx context.Context, userID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	category, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		JOIN category_groups g ON g.id = c.group_id
		WHERE c.user_id = ? AND lower(c.name) = lower(?)
		ORDER BY g.sort_order, c.sort_order
		LIMIT 1
	`, userID, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// ListCategories returns a user's categories ordered by group then category sort order.
func (s *SQLiteStorage) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		JOIN category_groups g ON g.id = c.group_id
		WHERE c.user_id = ?
		ORDER BY g.sort_order, c.sort_order, c.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category. In the same transaction its allocations
// are deleted and transactions and payee defaults referencing it are cleared.
// The protected Uncategorized category cannot be deleted.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		category, err := s.getCategoryTx(ctx, tx, id)
		if err != nil {
			return err
		}
		group, err := s.getGroupTx(ctx, tx, category.GroupID)
		if err != nil {
			return err
		}
		if group.IsProtected() && category.Name == model.UncategorizedCategory {
			fallback, err := s.ensureCategoryTx(ctx, tx, group, template.Category{Name: model.UncategorizedCategory, IsDefault: true})
			if err != nil {
				return err
			}
			if fallback.ID == category.ID {
				return fmt.Errorf("cannot delete %s/%s: %w", group.Name, category.Name, common.ErrInvariantViolation)
			}
		}

		statements := []struct {
			query string
			what  string
		}{
			{`DELETE FROM allocations WHERE category_id = ?`, "allocations"},
			{`UPDATE transactions SET category_id = NULL WHERE category_id = ?`, "transactions"},
			{`UPDATE payees SET default_category_id = NULL WHERE default_category_id = ?`, "payee defaults"},
			{`DELETE FROM categories WHERE id = ?`, "category"},
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt.query, id); err != nil {
				return fmt.Errorf("failed to clear %s for category %s: %w", stmt.what, id, err)
			}
		}
		return nil
	})
}

// ReassignAndDeleteGroup moves every category of a group into the user's
// Miscellaneous group and then deletes the group, atomically. Moved
// categories keep their IDs, so transactions, allocations, and payee defaults
// follow them, even when Miscellaneous already holds a category of the same
// name.
func (s *SQLiteStorage) ReassignAndDeleteGroup(ctx context.Context, groupID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(groupID, "groupID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		group, err := s.getGroupTx(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if group.IsProtected() {
			return fmt.Errorf("cannot delete the %s group: %w", model.MiscellaneousGroup, common.ErrInvariantViolation)
		}

		misc, err := s.findGroupByNameTx(ctx, tx, group.UserID, model.MiscellaneousGroup)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no %s group to receive categories: %w", model.MiscellaneousGroup, common.ErrInvariantViolation)
		}
		if err != nil {
			return err
		}

		var nextSort int
		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(sort_order) + 1, 0) FROM categories WHERE group_id = ?
		`, misc.ID).Scan(&nextSort); err != nil {
			return fmt.Errorf("failed to read sort order: %w", err)
		}

		if err := s.moveCategoriesTx(ctx, tx, group.ID, misc.ID, nextSort); err != nil {
			return fmt.Errorf("failed to reassign categories: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM category_groups WHERE id = ?`, group.ID)
		if err != nil {
			return fmt.Errorf("failed to delete category group: %w", err)
		}
		return requireAffected(result, "category group", group.ID)
	})
}

// moveCategoriesTx appends a group's categories to target in their existing
// order.
func (s *SQLiteStorage) moveCategoriesTx(ctx context.Context, tx *sql.Tx, fromGroupID, toGroupID string, firstSort int) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM categories WHERE group_id = ? ORDER BY sort_order, name
	`, fromGroupID)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `
			UPDATE categories SET group_id = ?, sort_order = ? WHERE id = ?
		`, toGroupID, firstSort+i, id); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDefaultTaxonomy creates the Miscellaneous group and its Uncategorized
// category when missing and returns the Uncategorized category.
func (s *SQLiteStorage) EnsureDefaultTaxonomy(ctx context.Context, userID string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var uncategorized *model.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		misc, err := s.upsertGroupTx(ctx, tx, userID, model.MiscellaneousGroup, -1)
		if err != nil {
			return err
		}
		uncategorized, err = s.ensureCategoryTx(ctx, tx, misc, template.Category{
			Name:      model.UncategorizedCategory,
			SortOrder: 0,
			IsDefault: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return uncategorized, nil
}

// ApplyTemplate creates any groups and categories of a template the user does
// not already have. Existing groups take the template's sort order.
func (s *SQLiteStorage) ApplyTemplate(ctx context.Context, userID string, groups []template.Group) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, tg := range groups {
			group, err := s.upsertGroupTx(ctx, tx, userID, tg.Name, tg.SortOrder)
			if err != nil {
				return err
			}
			for _, tc := range tg.Categories {
				if _, err := s.ensureCategoryTx(ctx, tx, group, tc); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// upsertGroupTx finds or creates a group by name. A negative sortOrder
// leaves an existing group's order alone and appends a new one at the end.
func (s *SQLiteStorage) upsertGroupTx(ctx context.Context, tx *sql.Tx, userID, name string, sortOrder int) (*model.CategoryGroup, error) {
	existing, err := s.findGroupByNameTx(ctx, tx, userID, name)
	if err == nil {
		if sortOrder >= 0 && existing.SortOrder != sortOrder {
			if _, err := tx.ExecContext(ctx, `UPDATE category_groups SET sort_order = ? WHERE id = ?`, sortOrder, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to reorder category group: %w", err)
			}
			existing.SortOrder = sortOrder
		}
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	if sortOrder < 0 {
		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(sort_order) + 1, 0) FROM category_groups WHERE user_id = ?
		`, userID).Scan(&sortOrder); err != nil {
			return nil, fmt.Errorf("failed to read sort order: %w", err)
		}
	}

	group := &model.CategoryGroup{UserID: userID, Name: name, SortOrder: sortOrder}
	if err := s.createGroupTx(ctx, tx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SQLiteStorage) ensureCategoryTx(ctx context.Context, tx *sql.Tx, group *model.CategoryGroup, tc template.Category) (*model.Category, error) {
	existing, err := scanCategory(tx.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.group_id = ? AND c.name = ?
		ORDER BY c.sort_order, c.created_at
		LIMIT 1
	`, group.ID, tc.Name))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	category := &model.Category{
		UserID:    group.UserID,
		GroupID:   group.ID,
		Name:      tc.Name,
		SortOrder: tc.SortOrder,
		IsDefault: tc.IsDefault,
	}
	if err := s.createCategoryTx(ctx, tx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func scanGroup(row rowScanner) (*model.CategoryGroup, error) {
	var group model.CategoryGroup
	if err := row.Scan(&group.ID, &group.UserID, &group.Name, &group.SortOrder, &group.CreatedAt); err != nil {
		return nil, err
	}
	return &group, nil
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var category model.Category
	if err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.GroupID,
		&category.Name,
		&category.SortOrder,
		&category.IsDefault,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
