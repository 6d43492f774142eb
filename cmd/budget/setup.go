package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/template"
)

func setupCmd() *cobra.Command {
	var (
		home        string
		fromConfig  bool
		interactive bool
		sel         template.Selections
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Seed your category taxonomy",
		Long: `Build your category groups and categories from a short questionnaire.

Answers come from flags, from the setup section of the config file
(--from-config), or interactively (--interactive). Running setup again only
adds what is missing.`,
		Example: `  budget setup --home rent --regular groceries,clothing --fun dining-out
  budget setup --interactive
  budget setup --from-config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			switch {
			case interactive:
				answers, err := cli.NewPrompter(os.Stdin, os.Stdout).Questionnaire(ctx)
				if err != nil {
					return err
				}
				sel = answers
			case fromConfig:
				if err := viper.UnmarshalKey("setup", &sel); err != nil {
					return fmt.Errorf("failed to read setup answers: %w", err)
				}
			default:
				sel.Home = home
			}

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.ledger.SetupFromSelections(ctx, sel)
			if err != nil {
				return err
			}

			if unknown := template.UnknownOptions(sel); len(unknown) > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Ignored unknown options: %v", unknown)))
			}
			count := 0
			for _, g := range groups {
				count += len(g.Categories)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Taxonomy ready: %d groups, %d categories", len(groups), count)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Answer the questionnaire interactively")
	cmd.Flags().BoolVar(&fromConfig, "from-config", false, "Read answers from the setup section of the config file")
	cmd.Flags().StringVar(&home, "home", "", "Home situation (rent, own, other)")
	cmd.Flags().StringSliceVar(&sel.Household, "household", nil, "Household members (myself, partner, kids, teens, other-adults, pets)")
	cmd.Flags().StringSliceVar(&sel.Transportation, "transportation", nil, "Ways you get around (car, rideshare, bike, motorcycle, walk, public-transit)")
	cmd.Flags().StringSliceVar(&sel.Debt, "debt", nil, "Debts (credit-card, medical-debt, auto-loans, bnpl, student-loans, personal-loans)")
	cmd.Flags().StringSliceVar(&sel.RegularSpending, "regular", nil, "Regular spending (groceries, tv-phone-internet, personal-care, clothing, self-storage)")
	cmd.Flags().StringSliceVar(&sel.Subscriptions, "subscriptions", nil, "Subscriptions (music, tv-streaming, fitness, other-subs)")
	cmd.Flags().StringSliceVar(&sel.LessFrequent, "less-frequent", nil, "Less frequent expenses (cc-fees, medical-expenses, taxes)")
	cmd.Flags().StringSliceVar(&sel.Goals, "goals", nil, "Savings goals (vacation, new-baby, new-car, emergency-fund, new-home, retirement, wedding)")
	cmd.Flags().StringSliceVar(&sel.FunSpending, "fun", nil, "Fun spending (dining-out, holidays-gifts, entertainment, decor-garden, hobbies, my-spending-money, charity, their-spending-money)")

	return cmd
}
