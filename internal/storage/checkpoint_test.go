package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestCheckpointManager_CreateListDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cm, err := f.store.NewCheckpointManager()
	require.NoError(t, err)

	info, err := cm.Create(ctx, "before-import", "Before statement import")
	require.NoError(t, err)
	assert.Equal(t, "before-import", info.ID)
	assert.Equal(t, 1, info.Accounts)
	assert.Equal(t, 3, info.Categories)
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.Positive(t, info.FileSize)

	_, err = cm.Create(ctx, "before-import", "again")
	assert.ErrorIs(t, err, ErrCheckpointExists)

	_, err = cm.Create(ctx, "../escape", "")
	assert.Error(t, err)

	list, err := cm.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, cm.Delete(ctx, "before-import"))
	assert.ErrorIs(t, cm.Delete(ctx, "before-import"), ErrCheckpointNotFound)
}

func TestCheckpointManager_Restore(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	acct := &model.Account{UserID: testUser, Name: "Cash", Type: model.AccountTypeCash, OpeningBalance: decimal.NewFromInt(20)}
	require.NoError(t, store.CreateAccount(ctx, acct))

	cm, err := store.NewCheckpointManager()
	require.NoError(t, err)
	_, err = cm.Create(ctx, "one-account", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteAccount(ctx, acct.ID))
	require.NoError(t, cm.Restore(ctx, "one-account"))

	reopened, err := NewSQLiteStorage(store.dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	accounts, err := reopened.ListAccounts(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Cash", accounts[0].Name)

	assert.ErrorIs(t, cm.Restore(ctx, "missing"), ErrCheckpointNotFound)
}

func TestCheckpointManager_AutoCheckpointPrunes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cm, err := f.store.NewCheckpointManager()
	require.NoError(t, err)

	for range maxAutoCheckpoints + 2 {
		require.NoError(t, cm.AutoCheckpoint(ctx, "delete-group"))
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, maxAutoCheckpoints)
	for _, cp := range list {
		assert.True(t, cp.IsAuto)
	}
}

func TestNewCheckpointManager_RejectsMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.NewCheckpointManager()
	assert.ErrorIs(t, err, ErrInMemoryDatabase)
}
