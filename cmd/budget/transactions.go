package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions", "transaction"},
		Short:   "Record and list transactions",
		Example: `  budget tx add 54.20 --payee "Corner Store" --account Checking --category Groceries
  budget tx add 3000 --type income --payee Employer --account Checking
  budget tx list --month 2024-03
  budget tx edit <id> --category "Dining out"
  budget tx delete <id>`,
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

type transactionFlags struct {
	account  string
	payee    string
	category string
	date     string
	notes    string
	txType   string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "Account name or ID")
	cmd.Flags().StringVarP(&f.payee, "payee", "p", "", "Payee name")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category name or ID (expenses default to the payee's usual category)")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "Notes")
	cmd.Flags().StringVarP(&f.txType, "type", "t", string(model.TransactionTypeExpense), "Type (expense, income, transfer)")
}

func addTransactionCmd() *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := a.resolveAccount(ctx, flags.account)
			if err != nil {
				return err
			}

			in := ledger.NewTransaction{
				Amount:    amount,
				AccountID: account.ID,
				PayeeName: flags.payee,
				Date:      flags.date,
				Notes:     flags.notes,
				Type:      model.TransactionType(flags.txType),
			}
			if in.Date == "" {
				in.Date = model.FormatDate(time.Now())
			}
			if flags.category != "" {
				category, err := a.resolveCategory(ctx, flags.category)
				if err != nil {
					return err
				}
				in.CategoryID = category.ID
			}

			txn, err := a.ledger.RecordTransaction(ctx, in)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s on %s (%s)", txn.Type, cli.FormatMoney(txn.Amount), txn.Date, txn.ID)))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("payee")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		month string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !all {
				var err error
				if month, err = monthOrCurrent(month); err != nil {
					return err
				}
			} else {
				month = ""
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.ledger.Transactions(ctx, month)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println(cli.SubtitleStyle.Render("No transactions."))
				return nil
			}

			names, err := a.transactionNames(ctx)
			if err != nil {
				return err
			}
			fmt.Println(cli.RenderTransactions(txns, names))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month (YYYY-MM, default current)")
	cmd.Flags().BoolVar(&all, "all", false, "List every transaction")

	return cmd
}

func (a *app) transactionNames(ctx context.Context) (cli.TransactionNames, error) {
	userID := a.ledger.UserID()
	names := cli.TransactionNames{
		Payees:     map[string]string{},
		Categories: map[string]string{},
		Accounts:   map[string]string{},
	}

	payees, err := a.store.ListPayees(ctx, userID)
	if err != nil {
		return names, err
	}
	for _, p := range payees {
		names.Payees[p.ID] = p.Name
	}
	categories, err := a.store.ListCategories(ctx, userID)
	if err != nil {
		return names, err
	}
	for _, c := range categories {
		names.Categories[c.ID] = c.Name
	}
	accounts, err := a.store.ListAccounts(ctx, userID)
	if err != nil {
		return names, err
	}
	for _, acct := range accounts {
		names.Accounts[acct.ID] = acct.Name
	}
	return names, nil
}

func editTransactionCmd() *cobra.Command {
	var (
		flags  transactionFlags
		amount string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Long:  `Change the fields given as flags. Pass --category "" to uncategorize.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var changes ledger.TransactionChanges
			changed := cmd.Flags().Changed

			if changed("amount") {
				value, err := parseAmount(amount)
				if err != nil {
					return err
				}
				changes.Amount = &value
			}
			if changed("account") {
				account, err := a.resolveAccount(ctx, flags.account)
				if err != nil {
					return err
				}
				changes.AccountID = &account.ID
			}
			if changed("category") {
				categoryID := ""
				if flags.category != "" {
					category, err := a.resolveCategory(ctx, flags.category)
					if err != nil {
						return err
					}
					categoryID = category.ID
				}
				changes.CategoryID = &categoryID
			}
			if changed("payee") {
				changes.PayeeName = &flags.payee
			}
			if changed("date") {
				changes.Date = &flags.date
			}
			if changed("notes") {
				changes.Notes = &flags.notes
			}
			if changed("type") {
				t := model.TransactionType(flags.txType)
				changes.Type = &t
			}

			txn, err := a.ledger.UpdateTransaction(ctx, args[0], changes)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Updated transaction " + txn.ID))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ledger.DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted transaction " + args[0]))
			return nil
		},
	}
}
