package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "hlsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.InitSchema(context.Background()))
	return db
}

func day(d int) time.Time {
	return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
}

func TestInitSchemaIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.InitSchema(context.Background()))

	for _, table := range []string{"accounts", "account_values", "transactions", "transaction_lines", "options"} {
		var n int
		err := db.conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestAccountsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	bank := model.NewAccount("Assets:Bank")
	bank.AddAmount("EUR", 12.5)
	bank.AddAmount("USD", -3)
	bank.AmountsExpanded = true
	assets := model.NewAccount("Assets")
	assets.IsExpanded = false
	require.NoError(t, db.StoreAccounts(ctx, 1, []model.Account{bank, assets}))

	got, ok, err := db.GetByName(ctx, 1, "Assets")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, got.IsExpanded)

	_, ok, err = db.GetByName(ctx, 2, "Assets")
	require.NoError(t, err)
	assert.False(t, ok, "other profile")

	list, err := db.ListAccounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Assets", list[0].Name)
	assert.Equal(t, "Assets:Bank", list[1].Name)
	assert.Equal(t, 1, list[1].Level)
	assert.Equal(t, "Assets", list[1].ParentName)
	assert.True(t, list[1].AmountsExpanded)
	assert.Equal(t, []model.AccountAmount{{Currency: "EUR", Amount: 12.5}, {Currency: "USD", Amount: -3}}, list[1].Amounts)
}

func TestStoreAccountsReplaces(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	old := model.NewAccount("Old")
	old.AddAmount("", 1)
	require.NoError(t, db.StoreAccounts(ctx, 1, []model.Account{old}))
	require.NoError(t, db.StoreAccounts(ctx, 1, []model.Account{model.NewAccount("New")}))

	list, err := db.ListAccounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Name)
	assert.Empty(t, list[0].Amounts)
}

func TestTransactionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	txs := []model.Transaction{
		{LedgerID: 1, Date: day(1), Description: "rent", Lines: []model.TransactionLine{
			{AccountName: "Expenses:Rent", Amount: 800, Currency: "EUR"},
			{AccountName: "Assets:Bank", Amount: -800, Currency: "EUR", Comment: "transfer"},
		}},
		{LedgerID: 2, Date: day(3), Description: "lunch", Comment: "with Ana", Lines: []model.TransactionLine{
			{AccountName: "Expenses:Food", Amount: 12.5},
			{AccountName: "Assets:Cash", Amount: -12.5},
		}},
		{LedgerID: 3, Date: day(3), Description: "coffee", Lines: []model.TransactionLine{
			{AccountName: "ExpensesX", Amount: 2},
			{AccountName: "Assets:Cash", Amount: -2},
		}},
	}
	require.NoError(t, db.StoreTransactions(ctx, 1, txs))

	all, err := db.ListTransactions(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].LedgerID, all[1].LedgerID, all[2].LedgerID})
	assert.Equal(t, txs[0], all[2])
	assert.Equal(t, "with Ana", all[1].Comment)

	expenses, err := db.ListTransactions(ctx, 1, "Expenses")
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, int64(2), expenses[0].LedgerID)
	assert.Equal(t, int64(1), expenses[1].LedgerID)

	require.NoError(t, db.StoreTransactions(ctx, 1, txs[:1]))
	all, err = db.ListTransactions(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLastSync(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, ok, err := db.LastSync(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, db.SetLastSyncTimestamp(ctx, 1, at))
	require.NoError(t, db.SetLastSyncTimestamp(ctx, 1, at.Add(time.Hour)))

	got, ok, err := db.LastSync(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(at.Add(time.Hour)))
}

func TestCloseTwice(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
}
