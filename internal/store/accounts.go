package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yus314/MoLe-sub005/internal/accounts"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

// GetByName returns the stored account of a profile, without amounts.
func (db *DB) GetByName(ctx context.Context, profileID int64, name string) (model.Account, bool, error) {
	var a model.Account
	err := db.conn.QueryRowContext(ctx, `
		SELECT name, level, parent_name, expanded, amounts_expanded
		FROM accounts WHERE profile_id = ? AND name = ?`, profileID, name).
		Scan(&a.Name, &a.Level, &a.ParentName, &a.IsExpanded, &a.AmountsExpanded)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("reading account %q: %w", name, err)
	}
	return a, true, nil
}

// StoreAccounts replaces every account of the profile with accs.
func (db *DB) StoreAccounts(ctx context.Context, profileID int64, accs []model.Account) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE profile_id = ?`, profileID); err != nil {
			return fmt.Errorf("clearing accounts: %w", err)
		}

		insAcc, err := tx.PrepareContext(ctx, `
			INSERT INTO accounts (profile_id, name, level, parent_name, expanded, amounts_expanded)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing account insert: %w", err)
		}
		defer insAcc.Close()

		insVal, err := tx.PrepareContext(ctx, `
			INSERT INTO account_values (profile_id, account_name, currency, value)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing amount insert: %w", err)
		}
		defer insVal.Close()

		for _, a := range accs {
			if _, err := insAcc.ExecContext(ctx, profileID, a.Name, a.Level, a.ParentName, a.IsExpanded, a.AmountsExpanded); err != nil {
				return fmt.Errorf("inserting account %q: %w", a.Name, err)
			}
			for _, amt := range a.Amounts {
				if _, err := insVal.ExecContext(ctx, profileID, a.Name, amt.Currency, float64(amt.Amount)); err != nil {
					return fmt.Errorf("inserting amount of %q: %w", a.Name, err)
				}
			}
		}
		return nil
	})
}

// ListAccounts returns the profile's accounts with their amounts, in tree
// order.
func (db *DB) ListAccounts(ctx context.Context, profileID int64) ([]model.Account, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, level, parent_name, expanded, amounts_expanded
		FROM accounts WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accs []model.Account
	index := make(map[string]int)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.Name, &a.Level, &a.ParentName, &a.IsExpanded, &a.AmountsExpanded); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		index[a.Name] = len(accs)
		accs = append(accs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	vals, err := db.conn.QueryContext(ctx, `
		SELECT account_name, currency, value
		FROM account_values WHERE profile_id = ?
		ORDER BY rowid`, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing amounts: %w", err)
	}
	defer vals.Close()

	for vals.Next() {
		var (
			name, currency string
			value          float64
		)
		if err := vals.Scan(&name, &currency, &value); err != nil {
			return nil, fmt.Errorf("scanning amount: %w", err)
		}
		if i, ok := index[name]; ok {
			accs[i].Amounts = append(accs[i].Amounts, model.AccountAmount{Currency: currency, Amount: float32(value)})
		}
	}
	if err := vals.Err(); err != nil {
		return nil, fmt.Errorf("listing amounts: %w", err)
	}

	accounts.SortByName(accs)
	return accs, nil
}
