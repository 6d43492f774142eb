package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/budget"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/config"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/llm"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// app bundles the collaborators a command works with.
type app struct {
	store     *storage.SQLiteStorage
	ledger    *ledger.Service
	assistant *llm.ResilientClient
}

// Close releases the database and the assistant's rate limiter.
func (a *app) Close() {
	if a.assistant != nil {
		a.assistant.Close()
	}
	if err := a.store.Close(); err != nil {
		slog.Debug("failed to close database", "error", err)
	}
}

// initApp opens storage and builds the ledger service. When requireAssistant
// is set a missing LLM configuration is an error; otherwise the service runs
// without one.
func initApp(ctx context.Context, requireAssistant bool) (*app, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{store: store}

	cfg := ledger.Config{
		Logger: slog.Default(),
		UserID: viper.GetString("user_id"),
	}

	if checkpoints, err := store.NewCheckpointManager(); err == nil {
		cfg.Checkpoints = checkpoints
	} else {
		slog.Debug("automatic checkpoints disabled", "error", err)
	}

	llmConfig, err := config.LoadLLMConfig()
	switch {
	case err == nil:
		a.assistant, err = llm.NewClient(llmConfig, slog.Default())
		if err != nil {
			a.Close()
			return nil, err
		}
		cfg.Assistant = a.assistant
	case requireAssistant:
		a.Close()
		return nil, fmt.Errorf("LLM assistance is not configured: %w", err)
	default:
		slog.Debug("LLM assistance disabled", "error", err)
	}

	a.ledger = ledger.New(store, cfg)
	return a, nil
}

// parseAmount reads a user-entered amount such as "1,234.50" or "$12".
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &model.ValidationError{Field: "amount", Reason: "is not a number: " + s}
	}
	return amount, nil
}

// monthOrCurrent returns month, or the current month when it is empty.
func monthOrCurrent(month string) (string, error) {
	if month == "" {
		return budget.MonthOfTime(time.Now()), nil
	}
	if err := model.ValidateMonth(month); err != nil {
		return "", err
	}
	return month, nil
}

// resolveAccount matches ref against account IDs, then names case-insensitively.
func (a *app) resolveAccount(ctx context.Context, ref string) (*model.Account, error) {
	accounts, err := a.store.ListAccounts(ctx, a.ledger.UserID())
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].ID == ref {
			return &accounts[i], nil
		}
	}
	for i := range accounts {
		if strings.EqualFold(accounts[i].Name, strings.TrimSpace(ref)) {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", ref, common.ErrNotFound)
}

// resolveCategory matches ref against category IDs, then names
// case-insensitively.
func (a *app) resolveCategory(ctx context.Context, ref string) (*model.Category, error) {
	category, err := a.store.GetCategory(ctx, ref)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return a.store.FindCategoryByName(ctx, a.ledger.UserID(), ref)
}

// resolveGroup matches ref against group IDs, then names case-insensitively.
func (a *app) resolveGroup(ctx context.Context, ref string) (*model.CategoryGroup, error) {
	groups, err := a.store.ListGroups(ctx, a.ledger.UserID())
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == ref || strings.EqualFold(groups[i].Name, strings.TrimSpace(ref)) {
			return &groups[i], nil
		}
	}
	return nil, fmt.Errorf("group %q: %w", ref, common.ErrNotFound)
}
