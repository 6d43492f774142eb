package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ordered"
	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

// Taxonomy returns the user's groups with their categories, both in sort order.
func (s *Service) Taxonomy(ctx context.Context) ([]model.GroupWithCategories, error) {
	groups, err := s.storage.ListGroups(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	categories, err := s.storage.ListCategories(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	index := make(map[string]int, len(groups))
	out := make([]model.GroupWithCategories, len(groups))
	for i, g := range groups {
		index[g.ID] = i
		out[i].Group = g
	}
	for _, c := range categories {
		if i, ok := index[c.GroupID]; ok {
			out[i].Categories = append(out[i].Categories, c)
		}
	}
	return out, nil
}

// AddCategory creates a category at the end of the named group, creating the
// group at the end of the taxonomy when it does not exist.
func (s *Service) AddCategory(ctx context.Context, groupName, name string) (*model.Category, error) {
	groupName = strings.TrimSpace(groupName)
	name = strings.TrimSpace(name)
	if groupName == "" {
		return nil, &model.ValidationError{Field: "group", Reason: "is required"}
	}

	taxonomy, err := s.Taxonomy(ctx)
	if err != nil {
		return nil, err
	}

	var group *model.CategoryGroup
	sortOrder := 0
	for i := range taxonomy {
		if strings.EqualFold(taxonomy[i].Group.Name, groupName) {
			group = &taxonomy[i].Group
			sortOrder = len(taxonomy[i].Categories)
			break
		}
	}
	if group == nil {
		group = &model.CategoryGroup{UserID: s.userID, Name: groupName, SortOrder: len(taxonomy)}
		if err := s.storage.CreateGroup(ctx, group); err != nil {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
	}

	category := &model.Category{
		UserID:    s.userID,
		GroupID:   group.ID,
		Name:      name,
		SortOrder: sortOrder,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Its allocations go with it; transactions
// and payee defaults that pointed at it become uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.storage.DeleteCategory(ctx, id)
}

// DeleteGroup moves the group's categories into Miscellaneous and removes
// the group in one step. The Miscellaneous group itself cannot be deleted.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	group, err := s.storage.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	if group.IsProtected() {
		return fmt.Errorf("cannot delete the %s group: %w", model.MiscellaneousGroup, common.ErrInvariantViolation)
	}

	s.checkpoint(ctx, "delete-group")

	if err := s.storage.ReassignAndDeleteGroup(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category group deleted", "group", group.Name)
	return nil
}

// RenameGroup changes a group's name. Miscellaneous cannot be renamed.
func (s *Service) RenameGroup(ctx context.Context, id, name string) (*model.CategoryGroup, error) {
	group, err := s.storage.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Name = strings.TrimSpace(name)
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ReorderGroups puts the listed groups first, in the given order. Groups not
// listed follow in their current order.
func (s *Service) ReorderGroups(ctx context.Context, ids []string) error {
	groups, err := s.storage.ListGroups(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}

	var order ordered.Set[string]
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("category group %s: %w", id, common.ErrNotFound)
		}
		if !order.Add(id) {
			return &model.ValidationError{Field: "groups", Reason: "lists a group twice"}
		}
	}
	for _, g := range groups {
		order.Add(g.ID)
	}

	return s.storage.ReorderGroups(ctx, s.userID, order.Values())
}

// SetAllocation assigns amount to a category for month, replacing any
// previous assignment.
func (s *Service) SetAllocation(ctx context.Context, categoryID, month string, amount decimal.Decimal) (*model.Allocation, error) {
	alloc := &model.Allocation{
		UserID:     s.userID,
		CategoryID: strings.TrimSpace(categoryID),
		Month:      month,
		Assigned:   amount,
	}
	alloc.Normalize()
	if err := alloc.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.storage.GetCategory(ctx, alloc.CategoryID); err != nil {
		return nil, err
	}

	if err := s.storage.UpsertAllocation(ctx, alloc); err != nil {
		return nil, fmt.Errorf("failed to save allocation: %w", err)
	}
	return alloc, nil
}

// SetupFromSelections seeds the taxonomy built from onboarding answers.
// Running it again adds only what is missing.
func (s *Service) SetupFromSelections(ctx context.Context, selections template.Selections) ([]template.Group, error) {
	if unknown := template.UnknownOptions(selections); len(unknown) > 0 {
		s.logger.Warn("ignoring unknown setup options", "options", unknown)
	}

	groups := template.Build(selections)
	if err := s.storage.ApplyTemplate(ctx, s.userID, groups); err != nil {
		return nil, fmt.Errorf("failed to apply template: %w", err)
	}
	if _, err := s.storage.EnsureDefaultTaxonomy(ctx, s.userID); err != nil {
		return nil, fmt.Errorf("failed to ensure default taxonomy: %w", err)
	}

	s.logger.Info("taxonomy seeded", "groups", len(groups))
	return groups, nil
}
