package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage category groups and categories",
		Example: `  budget categories list
  budget categories add Food "Coffee shops"
  budget categories delete "Coffee shops"
  budget categories delete-group Food
  budget categories rename-group Food "Food & dining"
  budget categories reorder Bills Food`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(deleteGroupCmd())
	cmd.AddCommand(renameGroupCmd())
	cmd.AddCommand(reorderGroupsCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups and their categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			taxonomy, err := a.ledger.Taxonomy(ctx)
			if err != nil {
				return err
			}

			var b strings.Builder
			for _, g := range taxonomy {
				b.WriteString(cli.BoldStyle.Render(g.Group.Name))
				if showIDs {
					b.WriteString(" " + cli.SubtleStyle.Render(g.Group.ID))
				}
				b.WriteByte('\n')
				for _, c := range g.Categories {
					b.WriteString("  " + c.Name)
					if showIDs {
						b.WriteString(" " + cli.SubtleStyle.Render(c.ID))
					}
					b.WriteByte('\n')
				}
			}
			fmt.Print(b.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show IDs")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <group> <name>",
		Short: "Add a category, creating its group if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := a.ledger.AddCategory(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added category %s (%s)", category.Name, category.ID)))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category",
		Long: `Delete a category and its allocations. Transactions in the category
become uncategorized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := a.resolveCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if !force {
				ok, err := confirm(cmd, fmt.Sprintf("Delete category %s?", category.Name))
				if err != nil || !ok {
					return err
				}
			}

			if err := a.ledger.DeleteCategory(ctx, category.ID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted category " + category.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-group <group>",
		Short: "Delete a group, moving its categories to Miscellaneous",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			group, err := a.resolveGroup(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.DeleteGroup(ctx, group.ID); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted group " + group.Name))
			return nil
		},
	}
}

func renameGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-group <group> <new-name>",
		Short: "Rename a category group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			group, err := a.resolveGroup(ctx, args[0])
			if err != nil {
				return err
			}
			renamed, err := a.ledger.RenameGroup(ctx, group.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Renamed group %s to %s", group.Name, renamed.Name)))
			return nil
		},
	}
}

func reorderGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <group>...",
		Short: "Move groups to the top in the given order",
		Long: `Move the named groups to the top of the budget in the order given.
Groups you leave out keep their current order below them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ids := make([]string, 0, len(args))
			for _, ref := range args {
				group, err := a.resolveGroup(ctx, ref)
				if err != nil {
					return err
				}
				ids = append(ids, group.ID)
			}
			if err := a.ledger.ReorderGroups(ctx, ids); err != nil {
				return err
			}

			taxonomy, err := a.ledger.Taxonomy(ctx)
			if err != nil {
				return err
			}
			names := make([]string, len(taxonomy))
			for i, g := range taxonomy {
				names[i] = g.Group.Name
			}
			fmt.Println(cli.FormatSuccess("Group order: " + strings.Join(names, ", ")))
			return nil
		},
	}
}
