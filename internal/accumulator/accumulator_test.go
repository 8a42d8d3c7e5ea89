package accumulator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

func tx(id int64, day int, lines ...model.TransactionLine) model.Transaction {
	return model.Transaction{
		LedgerID:    id,
		Date:        time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Description: "tx",
		Lines:       lines,
	}
}

func line(account string, amount float32, currency string) model.TransactionLine {
	return model.TransactionLine{AccountName: account, Amount: amount, Currency: currency}
}

func TestRunningTotalIncludesSubAccounts(t *testing.T) {
	a := New("Expenses", PlainFormatter{})
	a.Put(tx(1, 15, line("Expenses:Food", 50, ""), line("Assets:Cash", -50, "")))

	items := a.Items()
	require.Len(t, items, 2)
	assert.Equal(t, HeaderItem, items[0].Kind)
	require.NotNil(t, items[1].RunningTotal)
	assert.Equal(t, "50.00", *items[1].RunningTotal)
	assert.Equal(t, "Expenses", items[1].BoldAccountName)
}

func TestRunningTotalAccumulates(t *testing.T) {
	a := New("Expenses:Food", PlainFormatter{})
	a.Put(tx(1, 15, line("Expenses:Food", 25.5, "")))
	a.Put(tx(2, 16, line("Expenses:Food", 10.25, "")))

	items := a.Items()
	require.Len(t, items, 3)
	// newest first
	assert.Equal(t, int64(2), items[1].Transaction.LedgerID)
	assert.Equal(t, "35.75", *items[1].RunningTotal)
	assert.Equal(t, "25.50", *items[2].RunningTotal)
}

func TestRunningTotalNil(t *testing.T) {
	tests := []struct {
		name    string
		account string
	}{
		{"no account", ""},
		{"no matching line", "Income"},
		{"prefix without separator", "Expense"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.account, PlainFormatter{})
			a.Put(tx(1, 15, line("Expenses:Food", 25.5, ""), line("Assets:Cash", -25.5, "")))
			items := a.Items()
			require.Len(t, items, 2)
			assert.Nil(t, items[1].RunningTotal)
		})
	}
}

func TestRunningTotalMultipleCurrencies(t *testing.T) {
	a := New("Assets", PlainFormatter{})
	a.Put(tx(1, 1, line("Assets:Bank", 10, "EUR")))
	a.Put(tx(2, 2, line("Assets:Wallet", 5, "BGN"), line("Assets:Bank", 2.5, "EUR")))

	items := a.Items()
	require.NotNil(t, items[1].RunningTotal)
	assert.Equal(t, "EUR 12.50 BGN 5.00", *items[1].RunningTotal)
}

func TestItemsEmpty(t *testing.T) {
	a := New("Expenses", nil)
	items := a.Items()
	require.Len(t, items, 1)
	assert.Equal(t, HeaderItem, items[0].Kind)
	assert.Zero(t, a.Count())
	assert.True(t, a.Earliest().IsZero())
}

func TestDatesAndCount(t *testing.T) {
	a := New("", nil)
	a.Put(tx(1, 3))
	a.Put(tx(2, 9))
	a.Put(tx(3, 12))

	assert.Equal(t, 3, a.Count())
	assert.Equal(t, 3, a.Earliest().Day())
	assert.Equal(t, 12, a.Latest().Day())
}

func TestMoneyFormatter(t *testing.T) {
	f := MoneyFormatter{}
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"50", "", "50.00"},
		{"1234.5", "usd", "$1,234.50"},
		{"-3.1", "ACME", "ACME -3.10"},
	}
	for _, tt := range tests {
		t.Run(tt.currency+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}
