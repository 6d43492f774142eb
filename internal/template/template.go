package template

import (
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ordered"
)

// Category is a category entry in a template group.
type Category struct {
	Name      string
	SortOrder int
	IsDefault bool
}

// Group is a template group with its categories.
type Group struct {
	Name       string
	Categories []Category
	SortOrder  int
}

// Build maps selections to an ordered, deduplicated taxonomy. The
// Miscellaneous group with Uncategorized is always present. Unknown option
// IDs contribute nothing.
func Build(s Selections) []Group {
	var groups ordered.Map[string, *ordered.Set[string]]
	add := func(group, category string) {
		set, ok := groups.Get(group)
		if !ok {
			set = &ordered.Set[string]{}
			groups.Set(group, set)
		}
		set.Add(category)
	}

	for _, id := range s.IDs() {
		for _, ref := range optionCategories[id] {
			add(ref.group, ref.category)
		}
	}
	add(model.MiscellaneousGroup, model.UncategorizedCategory)

	out := make([]Group, 0, groups.Len())
	for _, name := range GroupOrder {
		set, ok := groups.Get(name)
		if !ok || set.Len() == 0 {
			continue
		}
		out = append(out, newGroup(name, len(out), set.Values()))
	}
	return out
}

// Default is the fixed taxonomy used when setup is skipped.
func Default() []Group {
	defaults := []struct {
		name       string
		categories []string
	}{
		{"Housing", []string{"Rent/Mortgage", "Home Insurance", "Home Maintenance"}},
		{"Utilities", []string{"Electricity", "Water", "Internet", "Phone"}},
		{"Food", []string{"Groceries", "Dining Out"}},
		{"Transportation", []string{"Gas/Fuel", "Public Transit", "Car Insurance"}},
		{"Health", []string{"Health Insurance", "Doctor/Dentist", "Medications"}},
		{"Entertainment", []string{"Streaming Services", "Hobbies"}},
		{"Shopping", []string{"Clothing", "Electronics"}},
		{"Financial", []string{"Savings", "Investments", "Debt Payments"}},
		{"Personal", []string{"Education", "Gifts"}},
		{model.MiscellaneousGroup, []string{model.UncategorizedCategory, "Other"}},
	}

	out := make([]Group, 0, len(defaults))
	for i, g := range defaults {
		out = append(out, newGroup(g.name, i, g.categories))
	}
	return out
}

func newGroup(name string, sortOrder int, names []string) Group {
	g := Group{Name: name, SortOrder: sortOrder, Categories: make([]Category, len(names))}
	for i, n := range names {
		g.Categories[i] = Category{Name: n, SortOrder: i, IsDefault: true}
	}
	return g
}
