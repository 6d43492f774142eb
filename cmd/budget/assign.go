package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

func assignCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "assign <category> <amount>",
		Short: "Assign money to a category for a month",
		Long: `Set a category's allocation for a month, replacing any earlier amount.
Assign 0 to clear it.`,
		Example: `  budget assign Groceries 400
  budget assign Rent 1200 --month 2024-04`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			month, err := monthOrCurrent(month)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := a.resolveCategory(ctx, args[0])
			if err != nil {
				return err
			}
			alloc, err := a.ledger.SetAllocation(ctx, category.ID, month, amount)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Assigned %s to %s for %s", cli.FormatMoney(alloc.Assigned), category.Name, month)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM, default current)")

	return cmd
}
