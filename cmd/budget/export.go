package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/config"
	"github.com/Veraticus/the-budget-must-balance/internal/sheets"
)

func exportSheetsCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "export-sheets",
		Short: "Export a month's budget to Google Sheets",
		Long: `Write a month's budget to its own tab of a Google spreadsheet,
creating the spreadsheet or tab when missing and replacing the tab's contents
otherwise.

Authenticate once with 'budget export-sheets auth', or configure a service
account with sheets.service_account_path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			month, err := monthOrCurrent(month)
			if err != nil {
				return err
			}

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("google sheets is not configured: %w", err)
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

			writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return err
			}
			spreadsheetID, err := writer.WriteMonth(ctx, sheets.FromSummary(summary))
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Exported " + month + " to https://docs.google.com/spreadsheets/d/" + spreadsheetID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to export (YYYY-MM, default current)")
	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		listenAddr   string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google consent URL to open in your browser
2. Receive the authorization on a local callback
3. Save the token and add the refresh token to your config file

You'll need to run this once to set up Google Sheets export.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if clientID == "" {
				clientID = firstNonEmpty(viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
			}
			if clientSecret == "" {
				clientSecret = firstNonEmpty(viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
			}
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
			}

			oauthConfig := sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    config.SheetsTokenFile(),
				ListenAddr:   listenAddr,
			}

			slog.Info("Starting Google Sheets authentication", "token_file", oauthConfig.TokenFile)

			authenticate := sheets.GetOrCreateToken
			if force {
				authenticate = sheets.AuthenticateOAuth2Interactive
			}
			token, err := authenticate(ctx, oauthConfig)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			viper.Set("sheets.client_id", clientID)
			viper.Set("sheets.client_secret", clientSecret)
			viper.Set("sheets.refresh_token", token.RefreshToken)
			if err := saveConfig(); err != nil {
				slog.Warn("Failed to update config file with refresh token", "error", err)
				fmt.Println(cli.FormatWarning("Could not save the refresh token to your config file; it is still stored at " + oauthConfig.TokenFile))
			}

			fmt.Println(cli.FormatSuccess("Google Sheets is now configured. Run 'budget export-sheets' to export a month."))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().StringVar(&listenAddr, "listen", "localhost:8080", "Address for the OAuth2 callback listener")
	cmd.Flags().BoolVar(&force, "force", false, "Re-authenticate even when a saved token exists")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ExpandPath("~/.config/budget/config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
