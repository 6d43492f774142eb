package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/llm"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

var paceLabels = map[budget.PaceStatus]string{
	budget.PaceUnder:   "on track",
	budget.PaceWarning: "watch",
	budget.PaceOver:    "over",
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...)
}

// RenderMonth renders a month budget as a table grouped by category group,
// headed by the month's totals.
func RenderMonth(s budget.MonthSummary) string {
	title := s.Month
	if t, err := budget.ParseMonth(s.Month); err == nil {
		title = t.Format("January 2006")
	}

	totals := fmt.Sprintf("Income %s   Assigned %s   Spent %s   Ready to assign %s",
		FormatMoney(s.Income), FormatMoney(s.Assigned), FormatMoney(s.Spent), FormatMoney(s.ReadyToAssign))

	var rows [][]string
	groupRows := map[int]bool{}
	paceByRow := map[int]budget.PaceStatus{}
	lastGroup := ""
	for _, line := range s.Lines {
		if line.GroupID != lastGroup || len(rows) == 0 {
			groupRows[len(rows)] = true
			rows = append(rows, []string{line.GroupName, "", "", "", ""})
			lastGroup = line.GroupID
		}
		paceByRow[len(rows)] = line.Prediction.Status
		pace := paceLabels[line.Prediction.Status]
		if line.Assigned.IsZero() && line.Spent.IsZero() {
			pace = ""
		}
		rows = append(rows, []string{
			"  " + line.CategoryName,
			FormatMoney(line.Assigned),
			FormatMoney(line.Spent),
			FormatMoney(line.Available),
			pace,
		})
	}

	t := newTable("Category", "Assigned", "Spent", "Available", "Pace").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case groupRows[row]:
				return GroupRowStyle
			case col == 4 && paceByRow[row] == budget.PaceOver:
				return TableCellStyle.Foreground(ErrorColor)
			case col == 4 && paceByRow[row] == budget.PaceWarning:
				return TableCellStyle.Foreground(WarningColor)
			case col > 0 && col < 4:
				return TableCellStyle.Align(lipgloss.Right)
			}
			return TableCellStyle
		})

	parts := []string{FormatTitle(title), totals, t.Render()}
	if s.UncategorizedCount > 0 {
		parts = append(parts, SubtleStyle.Render(fmt.Sprintf("Uncategorized spending: %s across %d transactions",
			FormatMoney(s.UncategorizedSpent), s.UncategorizedCount)))
	}
	return strings.Join(parts, "\n")
}

// RenderNudges renders attention items, one block per nudge. It returns an
// empty string when there is nothing to say.
func RenderNudges(nudges []budget.Nudge) string {
	if len(nudges) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(nudges))
	for _, n := range nudges {
		blocks = append(blocks, FormatWarning(n.Title)+"\n   "+n.Description+" "+SubtleStyle.Render("["+n.ActionLabel+"]"))
	}
	return strings.Join(blocks, "\n")
}

// RenderAccounts renders accounts with their derived balances.
func RenderAccounts(balances []ledger.AccountBalance) string {
	rows := make([][]string, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, []string{b.Account.Name, string(b.Account.Type), FormatMoney(b.Balance), b.Account.ID})
	}
	return newTable("Account", "Type", "Balance", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 2 {
				return TableCellStyle.Align(lipgloss.Right)
			}
			return TableCellStyle
		}).
		Render()
}

// TransactionNames resolves the IDs a transaction listing shows.
type TransactionNames struct {
	Payees     map[string]string
	Categories map[string]string
	Accounts   map[string]string
}

// RenderTransactions renders transactions in the order given.
func RenderTransactions(txns []model.Transaction, names TransactionNames) string {
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		amount := FormatMoney(t.Amount)
		if t.IsExpense() {
			amount = "-" + amount
		}
		category := names.Categories[t.CategoryID]
		if t.CategoryID == "" && t.IsExpense() {
			category = model.UncategorizedCategory
		}
		rows = append(rows, []string{t.Date, names.Payees[t.PayeeID], category, names.Accounts[t.AccountID], amount, t.ID})
	}
	return newTable("Date", "Payee", "Category", "Account", "Amount", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == 4 {
				return TableCellStyle.Align(lipgloss.Right)
			}
			return TableCellStyle
		}).
		Render()
}

// RenderSuggestions renders suggested allocations with their reasoning,
// followed by the summary.
func RenderSuggestions(title string, s llm.Suggestions) string {
	rows := make([][]string, 0, len(s.Allocations))
	for _, a := range s.Allocations {
		rows = append(rows, []string{a.CategoryName, FormatMoney(a.Suggested), FormatMoney(a.LastMonthSpent), a.Reasoning})
	}

	parts := []string{TitleStyle.Render(RobotIcon + " " + title)}
	if len(rows) > 0 {
		parts = append(parts, newTable("Category", "Suggested", "Last month", "Why").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return TableHeaderStyle
				}
				if col == 1 || col == 2 {
					return TableCellStyle.Align(lipgloss.Right)
				}
				return TableCellStyle
			}).
			Render())
	}
	if s.Summary != "" {
		parts = append(parts, RenderBox("Summary", s.Summary))
	}
	return strings.Join(parts, "\n")
}
