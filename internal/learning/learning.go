// Package learning infers a payee's default category from its expense history.
package learning

import (
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ordered"
)

// MinOccurrences is how many categorized expenses a category needs before
// it can become a payee's default.
const MinOccurrences = 2

// LearnDefaultCategory scans txns in order and returns the payee's most
// frequent expense category. Ties go to the category seen first. It reports
// false when no category reaches MinOccurrences; callers then leave any
// existing default alone.
func LearnDefaultCategory(payeeID string, txns []model.Transaction) (string, bool) {
	counts := ordered.NewMap[string, int](4)
	for i := range txns {
		t := &txns[i]
		if t.PayeeID != payeeID || !t.IsExpense() || t.CategoryID == "" {
			continue
		}
		counts.Update(t.CategoryID, func(n int) int { return n + 1 })
	}

	best, bestCount := "", 0
	counts.Each(func(categoryID string, n int) bool {
		if n >= MinOccurrences && n > bestCount {
			best, bestCount = categoryID, n
		}
		return true
	})

	return best, best != ""
}
