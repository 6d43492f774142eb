package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	var (
		account    string
		noProgress bool
		inspect    bool
	)

	cmd := &cobra.Command{
		Use:   "import-ofx <files...>",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank
into one account. Lines imported before are recognized by their statement ID
and skipped, so re-importing an overlapping statement is safe.`,
		Example: `  budget import-ofx ~/Downloads/chase_jan_2024.qfx --account Checking
  budget import-ofx ~/Downloads/chase_*.qfx --account Checking

  # Show which bank accounts a file covers without importing it
  budget import-ofx ~/Downloads/export.qfx --inspect`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			if inspect {
				return inspectFiles(cmd, files)
			}
			if account == "" {
				return fmt.Errorf("--account is required unless --inspect is set")
			}

			handler := cli.NewInterruptHandler(cmd.OutOrStdout(),
				"Lines imported so far are saved. Run the same import again to finish; duplicates are skipped.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			a, err := initApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close()

			acct, err := a.resolveAccount(ctx, account)
			if err != nil {
				return err
			}

			opts := ledger.ImportOptions{}
			if !noProgress {
				opts.Progress = cli.ImportProgress(cmd.OutOrStdout())
			}

			var total ledger.ImportResult
			for _, file := range files {
				result, err := importFile(ctx, a, acct.ID, file, opts)
				if err != nil {
					if handler.WasInterrupted() {
						return nil
					}
					return fmt.Errorf("%s: %w", file, err)
				}
				total.Imported += result.Imported
				total.Duplicates += result.Duplicates
				total.Skipped += result.Skipped
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions into %s (%d duplicates, %d skipped)",
				total.Imported, acct.Name, total.Duplicates, total.Skipped)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account name or ID to import into")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
	cmd.Flags().BoolVar(&inspect, "inspect", false, "List the statement account IDs in each file without importing")

	return cmd
}

func importFile(ctx context.Context, a *app, accountID, path string, opts ledger.ImportOptions) (ledger.ImportResult, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return ledger.ImportResult{}, err
	}
	defer func() { _ = f.Close() }()

	slog.Info("Importing statement", "file", filepath.Base(path))
	return a.ledger.ImportStatement(ctx, accountID, f, opts)
}

// inspectFiles prints the bank account IDs each statement file covers.
func inspectFiles(cmd *cobra.Command, files []string) error {
	parser := ofx.NewParser(slog.Default())
	for _, path := range files {
		f, err := os.Open(path) // #nosec G304
		if err != nil {
			return err
		}
		accounts, err := parser.Accounts(cmd.Context(), f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		fmt.Println(cli.TitleStyle.Render(filepath.Base(path)))
		if len(accounts) == 0 {
			fmt.Println(cli.SubtleStyle.Render("  no statements"))
			continue
		}
		for _, id := range accounts {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
