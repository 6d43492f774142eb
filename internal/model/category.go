package model

import (
	"strings"
	"time"
)

// Protected taxonomy names. Every user has this group and category.
const (
	MiscellaneousGroup    = "Miscellaneous"
	UncategorizedCategory = "Uncategorized"
)

// CategoryGroup is an ordered collection of categories.
type CategoryGroup struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	Name      string
	SortOrder int
}

// IsProtected reports whether the group is the undeletable Miscellaneous group.
func (g *CategoryGroup) IsProtected() bool {
	return g.Name == MiscellaneousGroup
}

// Validate checks required fields.
func (g *CategoryGroup) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if g.SortOrder < 0 {
		return &ValidationError{Field: "sort_order", Reason: "must not be negative"}
	}
	return nil
}

// Category is a budgeting bucket that belongs to exactly one group.
type Category struct {
	CreatedAt time.Time
	ID        string
	UserID    string
	GroupID   string
	Name      string
	SortOrder int
	IsDefault bool
}

// Validate checks required fields.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.GroupID) == "" {
		return &ValidationError{Field: "group_id", Reason: "is required"}
	}
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if c.SortOrder < 0 {
		return &ValidationError{Field: "sort_order", Reason: "must not be negative"}
	}
	return nil
}

// GroupWithCategories pairs a group with its categories in sort order.
type GroupWithCategories struct {
	Group      CategoryGroup
	Categories []Category
}
