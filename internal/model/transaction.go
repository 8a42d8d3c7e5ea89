package model

import (
	"cmp"
	"slices"
	"time"
)

// Transaction is a ledger transaction as known to the server.
type Transaction struct {
	LedgerID    int64 // server-assigned, stable across syncs
	Date        time.Time
	Description string
	Comment     string
	Lines       []TransactionLine
}

// TransactionLine is one posting of a transaction.
type TransactionLine struct {
	AccountName string
	Amount      float32
	Currency    string
	Comment     string
}

// SortTransactions orders transactions newest first: by date descending,
// then by ledger id descending.
func SortTransactions(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.LedgerID, a.LedgerID)
	})
}

// DateLayout is the ISO form dates are stored and shown in.
const DateLayout = "2006-01-02"

// dateLayouts are the date forms hledger renders: ISO and the
// slash/dot separated ledger styles.
var dateLayouts = []string{DateLayout, "2006/01/02", "2006.01.02", "2006-1-2", "2006/1/2", "2006.1.2"}

// ParseDate parses an ISO or ledger-style date.
func ParseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
