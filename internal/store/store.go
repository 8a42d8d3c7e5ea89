// Package store keeps synced ledger data in a local SQLite database.
//
// One database holds every profile; rows are keyed by profile id. A sync
// replaces the profile's accounts and transactions wholesale, so there are
// no incremental updates beyond the per-account view flags.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/Yus314/MoLe-sub005/internal/persist"
)

var (
	_ persist.AccountRepository     = (*DB)(nil)
	_ persist.TransactionRepository = (*DB)(nil)
	_ persist.OptionRepository      = (*DB)(nil)
)

// DB is a SQLite-backed implementation of the persist repositories.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path. The caller must Close it.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	// best effort; the WAL is replayed on next open anyway
	_, _ = db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	db.conn = nil
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	profile_id       INTEGER NOT NULL,
	name             TEXT NOT NULL,
	level            INTEGER NOT NULL,
	parent_name      TEXT NOT NULL DEFAULT '',
	expanded         INTEGER NOT NULL DEFAULT 1,
	amounts_expanded INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (profile_id, name)
);

CREATE TABLE IF NOT EXISTS account_values (
	profile_id   INTEGER NOT NULL,
	account_name TEXT NOT NULL,
	currency     TEXT NOT NULL,
	value        REAL NOT NULL,
	PRIMARY KEY (profile_id, account_name, currency),
	FOREIGN KEY (profile_id, account_name)
		REFERENCES accounts(profile_id, name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
	profile_id  INTEGER NOT NULL,
	ledger_id   INTEGER NOT NULL,
	date        TEXT NOT NULL,
	description TEXT NOT NULL,
	comment     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (profile_id, ledger_id)
);

CREATE TABLE IF NOT EXISTS transaction_lines (
	profile_id   INTEGER NOT NULL,
	ledger_id    INTEGER NOT NULL,
	seq          INTEGER NOT NULL,
	account_name TEXT NOT NULL,
	amount       REAL NOT NULL,
	currency     TEXT NOT NULL DEFAULT '',
	comment      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (profile_id, ledger_id, seq),
	FOREIGN KEY (profile_id, ledger_id)
		REFERENCES transactions(profile_id, ledger_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS options (
	profile_id INTEGER NOT NULL,
	name       TEXT NOT NULL,
	value      TEXT NOT NULL,
	PRIMARY KEY (profile_id, name)
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(profile_id, date);
CREATE INDEX IF NOT EXISTS idx_lines_account ON transaction_lines(profile_id, account_name);
`

// InitSchema creates the tables if they do not exist yet.
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction, committing when it returns nil.
func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
