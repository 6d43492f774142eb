// Package config reads settings from viper into the typed configs used by
// the storage, llm, and sheets packages.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the ledger lives when database.path is unset.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/budget/budget.db")
}

// DatabasePath returns the configured database path, expanded.
func DatabasePath(configured string) string {
	switch configured {
	case "":
		return DefaultDatabasePath()
	case ":memory:":
		return configured
	}
	return ExpandPath(configured)
}
