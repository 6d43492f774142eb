package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

func quickAddCmd() *cobra.Command {
	var (
		account string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "quickadd <description>",
		Short: "Record an expense described in plain words",
		Long: `Ask the configured LLM to turn a description such as
"12.50 at the corner store for lunch yesterday" into an expense.`,
		Example: `  budget quickadd "54.20 groceries at Corner Store" --account Checking
  budget quickadd "coffee 4.50" --account Checking --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if dryRun {
				parsed, err := a.ledger.ParseQuickAdd(ctx, args[0], time.Now())
				if err != nil {
					return err
				}
				category := parsed.CategoryName
				if category == "" {
					category = "(payee default)"
				}
				fmt.Println(cli.RenderBox(cli.RobotIcon+" Parsed", fmt.Sprintf(
					"Amount:   %s\nPayee:    %s\nCategory: %s\nDate:     %s",
					cli.FormatMoney(parsed.Amount), parsed.PayeeName, category, parsed.Date)))
				return nil
			}

			if account == "" {
				return fmt.Errorf("--account is required unless --dry-run is set")
			}
			acct, err := a.resolveAccount(ctx, account)
			if err != nil {
				return err
			}
			txn, err := a.ledger.QuickAdd(ctx, args[0], acct.ID, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s on %s (%s)", cli.FormatMoney(txn.Amount), txn.Date, txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account name or ID")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the parsed transaction without saving it")

	return cmd
}

func suggestCmd() *cobra.Command {
	var (
		month string
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest allocations from last month's spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			month, err := monthOrCurrent(month)
			if err != nil {
				return err
			}

			a, err := initApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			suggestions, err := a.ledger.SuggestBudget(ctx, month)
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderSuggestions("Suggested budget for "+month, suggestions))

			if !apply {
				return nil
			}
			applied, err := a.ledger.ApplySuggestions(ctx, month, suggestions)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Applied %d allocations", applied)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to budget (YYYY-MM, default current)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Save the suggested amounts as allocations")

	return cmd
}

func reviewCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a month's spending against its budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			month, err := monthOrCurrent(month)
			if err != nil {
				return err
			}

			a, err := initApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			review, err := a.ledger.MonthlyReview(ctx, month)
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderSuggestions("Review of "+month, review))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to review (YYYY-MM, default current)")

	return cmd
}
