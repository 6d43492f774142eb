package config

import (
	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/sheets"
)

// LoadSheetsConfig builds the Google Sheets configuration. Precedence, highest
// first: sheets.* keys (config file or BUDGET_SHEETS_* env), GOOGLE_SHEETS_*
// environment variables, defaults. A refresh token saved by the interactive
// flow at sheets.token_file is used when none is configured.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()
	cfg.LoadFromEnv()

	override := func(dst *string, key string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.ServiceAccountPath, "sheets.service_account_path")
	override(&cfg.ClientID, "sheets.client_id")
	override(&cfg.ClientSecret, "sheets.client_secret")
	override(&cfg.RefreshToken, "sheets.refresh_token")
	override(&cfg.SpreadsheetID, "sheets.spreadsheet_id")
	override(&cfg.SpreadsheetName, "sheets.spreadsheet_name")
	override(&cfg.TimeZone, "sheets.time_zone")

	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if cfg.RefreshToken == "" && cfg.ServiceAccountPath == "" {
		if tokenFile := SheetsTokenFile(); tokenFile != "" {
			if token, err := sheets.LoadToken(tokenFile); err == nil {
				cfg.RefreshToken = token.RefreshToken
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SheetsTokenFile is where the interactive OAuth flow stores its token.
func SheetsTokenFile() string {
	if v := viper.GetString("sheets.token_file"); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath("~/.config/budget/sheets-token.json")
}
