package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

func showCmd() *cobra.Command {
	var (
		month    string
		noNudges bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's budget",
		Long: `Show each category's assigned, spent and available amounts with its
spending pace, followed by anything that needs attention.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			month, err := monthOrCurrent(month)
			if err != nil {
				return err
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.ledger.MonthBudget(ctx, month, time.Now())
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderMonth(summary))

			if noNudges {
				return nil
			}
			nudges, err := a.ledger.Nudges(ctx, month, time.Now())
			if err != nil {
				return err
			}
			if out := cli.RenderNudges(nudges); out != "" {
				fmt.Println()
				fmt.Println(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM, default current)")
	cmd.Flags().BoolVar(&noNudges, "no-nudges", false, "Hide attention items")

	return cmd
}
