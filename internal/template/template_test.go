package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func groupNames(groups []Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func categoryNames(g Group) []string {
	names := make([]string, len(g.Categories))
	for i, c := range g.Categories {
		names[i] = c.Name
	}
	return names
}

func assertGapFree(t *testing.T, groups []Group) {
	t.Helper()
	for i, g := range groups {
		assert.Equal(t, i, g.SortOrder, "group %s", g.Name)
		for j, c := range g.Categories {
			assert.Equal(t, j, c.SortOrder, "category %s/%s", g.Name, c.Name)
			assert.True(t, c.IsDefault)
		}
	}
}

func TestBuild_EmptySelections(t *testing.T) {
	groups := Build(Selections{})

	require.Len(t, groups, 1)
	assert.Equal(t, model.MiscellaneousGroup, groups[0].Name)
	assert.Equal(t, []string{model.UncategorizedCategory}, categoryNames(groups[0]))
	assertGapFree(t, groups)
}

func TestBuild_CanonicalGroupOrder(t *testing.T) {
	groups := Build(Selections{
		Household:   []string{"myself", "pets"},
		Home:        "rent",
		FunSpending: []string{"dining-out", "decor-garden"},
		Goals:       []string{"emergency-fund"},
		Debt:        []string{"credit-card"},
		Transportation: []string{
			"walk", "bike",
		},
		RegularSpending: []string{"groceries"},
	})

	assert.Equal(t, []string{
		"Housing", "Food", "Transportation", "Family", "Debt",
		"Savings Goals", "Home", "Miscellaneous",
	}, groupNames(groups))
	assertGapFree(t, groups)

	assert.Equal(t, []string{"Rent", "Renters insurance"}, categoryNames(groups[0]))
	assert.Equal(t, []string{"Groceries", "Dining out"}, categoryNames(groups[1]))
	assert.Equal(t, []string{"Bike maintenance"}, categoryNames(groups[2]))
}

func TestBuild_DeduplicatesCategories(t *testing.T) {
	groups := Build(Selections{
		Household:   []string{"partner", "kids", "teens"},
		FunSpending: []string{"their-spending-money", "charity"},
	})

	assert.Equal(t, []string{"Family", "Personal", "Miscellaneous"}, groupNames(groups))
	assert.Equal(t, []string{"Kids activities", "School supplies"}, categoryNames(groups[0]))
	assert.Equal(t, []string{"Their spending money", "Charity"}, categoryNames(groups[1]))
	assertGapFree(t, groups)
}

func TestBuild_FirstSeenOrderWithinGroup(t *testing.T) {
	groups := Build(Selections{
		Home:            "own",
		RegularSpending: []string{"self-storage"},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, []string{
		"Mortgage", "Home insurance", "Property taxes", "Home maintenance", "Self storage",
	}, categoryNames(groups[0]))
}

func TestBuild_UnknownOptionsContributeNothing(t *testing.T) {
	sel := Selections{Household: []string{"myself", "robots"}, Goals: []string{"moon-base"}}
	groups := Build(sel)

	assert.Equal(t, []string{"Miscellaneous"}, groupNames(groups))
	assert.Equal(t, []string{"robots", "moon-base"}, UnknownOptions(sel))
}

func TestBuild_Deterministic(t *testing.T) {
	sel := Selections{
		Home:          "other",
		Subscriptions: []string{"music", "fitness", "tv-streaming", "other-subs"},
		LessFrequent:  []string{"taxes", "cc-fees"},
	}
	assert.Equal(t, Build(sel), Build(sel))
}

func TestDefault(t *testing.T) {
	groups := Default()

	require.Len(t, groups, 10)
	assertGapFree(t, groups)
	last := groups[len(groups)-1]
	assert.Equal(t, model.MiscellaneousGroup, last.Name)
	assert.Equal(t, []string{model.UncategorizedCategory, "Other"}, categoryNames(last))
}

func TestStepsCoverMapping(t *testing.T) {
	for _, step := range Steps {
		for _, opt := range step.Options {
			_, ok := optionCategories[opt.ID]
			if opt.ID == "myself" || opt.ID == "other-adults" {
				assert.False(t, ok, opt.ID)
				continue
			}
			assert.True(t, ok, "option %s has no mapping", opt.ID)
		}
	}
}
