package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts",
	}

	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(editAccountCmd())
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func addAccountCmd() *cobra.Command {
	var (
		accountType string
		opening     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := parseAmount(opening)
			if err != nil {
				return err
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := a.ledger.AddAccount(ctx, args[0], model.AccountType(accountType), amount)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s account %s (%s)", account.Type, account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", string(model.AccountTypeChecking), "Account type (checking, savings, cash, credit)")
	cmd.Flags().StringVar(&opening, "opening", "0", "Opening balance")

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			balances, err := a.ledger.AccountBalances(ctx)
			if err != nil {
				return err
			}
			if len(balances) == 0 {
				fmt.Println(cli.SubtitleStyle.Render("No accounts yet. Add one with: budget accounts add <name>"))
				return nil
			}
			fmt.Println(cli.RenderAccounts(balances))
			return nil
		},
	}
}

func editAccountCmd() *cobra.Command {
	var (
		name        string
		accountType string
		opening     string
	)

	cmd := &cobra.Command{
		Use:   "edit <account>",
		Short: "Rename an account or change its type or opening balance",
		Example: `  budget accounts edit Checking --name "Joint checking"
  budget accounts edit Visa --type credit --opening -250`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			changed := cmd.Flags().Changed

			var changes ledger.AccountChanges
			if changed("name") {
				changes.Name = &name
			}
			if changed("type") {
				t := model.AccountType(accountType)
				changes.Type = &t
			}
			if changed("opening") {
				amount, err := parseAmount(opening)
				if err != nil {
					return err
				}
				changes.OpeningBalance = &amount
			}
			if changes == (ledger.AccountChanges{}) {
				return fmt.Errorf("nothing to change: pass --name, --type, or --opening")
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := a.resolveAccount(ctx, args[0])
			if err != nil {
				return err
			}
			updated, err := a.ledger.UpdateAccount(ctx, account.ID, changes)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s account %s (opening %s)",
				updated.Type, updated.Name, cli.FormatMoney(updated.OpeningBalance))))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New account name")
	cmd.Flags().StringVarP(&accountType, "type", "t", "", "Account type (checking, savings, cash, credit)")
	cmd.Flags().StringVar(&opening, "opening", "", "Opening balance")

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := a.resolveAccount(ctx, args[0])
			if err != nil {
				return err
			}

			if !force {
				ok, err := confirm(cmd, fmt.Sprintf("Delete account %s and all of its transactions?", account.Name))
				if err != nil || !ok {
					return err
				}
			}

			if err := a.ledger.DeleteAccount(ctx, account.ID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted account " + account.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

// confirm asks a yes/no question on the command's input and output.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	ok, err := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(cmd.Context(), question)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("Cancelled."))
	}
	return ok, nil
}
