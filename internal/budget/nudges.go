package budget

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NudgeKind identifies why a nudge was raised.
type NudgeKind string

// Nudge kinds.
const (
	NudgeOverspend     NudgeKind = "overspend"
	NudgeUnassigned    NudgeKind = "unassigned"
	NudgeUncategorized NudgeKind = "uncategorized"
)

const (
	maxOverspendNudges = 2
	maxNudges          = 3
)

// Nudge is a short actionable hint about the month.
type Nudge struct {
	Kind        NudgeKind
	Title       string
	Description string
	ActionLabel string
	CategoryID  string
}

// Nudges derives at most three hints from a month summary: up to two
// categories on pace to overspend, then unassigned money, then uncategorized
// expenses.
func Nudges(s MonthSummary) []Nudge {
	nudges := make([]Nudge, 0, maxNudges)

	for _, line := range s.Lines {
		if !line.Assigned.IsPositive() || line.Prediction.Status != PaceOver {
			continue
		}
		overBy := line.Prediction.Projected.Sub(line.Assigned).Round(0)
		nudges = append(nudges, Nudge{
			Kind:  NudgeOverspend,
			Title: line.CategoryName + " on pace to overspend",
			Description: fmt.Sprintf("You've spent $%s of $%s with %d days left. Projected overspend: ~$%s.",
				line.Spent.StringFixed(0), line.Assigned.StringFixed(0),
				s.DaysInMonth-s.DayOfMonth, overBy.String()),
			ActionLabel: "Fix it",
			CategoryID:  line.CategoryID,
		})
		if len(nudges) >= maxOverspendNudges {
			break
		}
	}

	if s.ReadyToAssign.GreaterThan(decimal.Zero) && len(nudges) < maxNudges {
		nudges = append(nudges, Nudge{
			Kind:        NudgeUnassigned,
			Title:       "$" + s.ReadyToAssign.StringFixed(0) + " unassigned",
			Description: "You have money that hasn't been assigned to any category yet.",
			ActionLabel: "Assign it",
		})
	}

	if s.UncategorizedCount > 0 && len(nudges) < maxNudges {
		plural := ""
		if s.UncategorizedCount > 1 {
			plural = "s"
		}
		nudges = append(nudges, Nudge{
			Kind:        NudgeUncategorized,
			Title:       fmt.Sprintf("%d uncategorized transaction%s", s.UncategorizedCount, plural),
			Description: "Some transactions need categories for accurate budget tracking.",
			ActionLabel: "Categorize",
		})
	}

	return nudges
}
