package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Yus314/MoLe-sub005/internal/model"
)

// StoreTransactions replaces every transaction of the profile with txs.
func (db *DB) StoreTransactions(ctx context.Context, profileID int64, txs []model.Transaction) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE profile_id = ?`, profileID); err != nil {
			return fmt.Errorf("clearing transactions: %w", err)
		}

		insTx, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (profile_id, ledger_id, date, description, comment)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing transaction insert: %w", err)
		}
		defer insTx.Close()

		insLine, err := tx.PrepareContext(ctx, `
			INSERT INTO transaction_lines (profile_id, ledger_id, seq, account_name, amount, currency, comment)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing line insert: %w", err)
		}
		defer insLine.Close()

		for _, t := range txs {
			if _, err := insTx.ExecContext(ctx, profileID, t.LedgerID, t.Date.Format(model.DateLayout), t.Description, t.Comment); err != nil {
				return fmt.Errorf("inserting transaction %d: %w", t.LedgerID, err)
			}
			for i, l := range t.Lines {
				if _, err := insLine.ExecContext(ctx, profileID, t.LedgerID, i, l.AccountName, float64(l.Amount), l.Currency, l.Comment); err != nil {
					return fmt.Errorf("inserting line %d of transaction %d: %w", i, t.LedgerID, err)
				}
			}
		}
		return nil
	})
}

// ListTransactions returns the profile's transactions newest first. When
// account is set, only transactions touching it or one of its sub-accounts
// are returned.
func (db *DB) ListTransactions(ctx context.Context, profileID int64, account string) ([]model.Transaction, error) {
	query := `
		SELECT ledger_id, date, description, comment
		FROM transactions t WHERE profile_id = ?`
	args := []any{profileID}
	if account != "" {
		query += `
		AND EXISTS (
			SELECT 1 FROM transaction_lines l
			WHERE l.profile_id = t.profile_id AND l.ledger_id = t.ledger_id
			AND (l.account_name = ? OR substr(l.account_name, 1, length(?) + 1) = ? || ':')
		)`
		args = append(args, account, account, account)
	}
	query += ` ORDER BY date DESC, ledger_id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	index := make(map[int64]int)
	for rows.Next() {
		var (
			t    model.Transaction
			date string
		)
		if err := rows.Scan(&t.LedgerID, &date, &t.Description, &t.Comment); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		if t.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.LedgerID, err)
		}
		index[t.LedgerID] = len(txs)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, nil
	}

	lines, err := db.conn.QueryContext(ctx, `
		SELECT ledger_id, account_name, amount, currency, comment
		FROM transaction_lines WHERE profile_id = ?
		ORDER BY ledger_id, seq`, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing lines: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var (
			id     int64
			l      model.TransactionLine
			amount float64
		)
		if err := lines.Scan(&id, &l.AccountName, &amount, &l.Currency, &l.Comment); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		l.Amount = float32(amount)
		if i, ok := index[id]; ok {
			txs[i].Lines = append(txs[i].Lines, l)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("listing lines: %w", err)
	}
	return txs, nil
}
