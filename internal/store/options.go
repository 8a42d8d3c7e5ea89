package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const optLastSync = "last_sync"

// SetLastSyncTimestamp records when the profile was last synced.
func (db *DB) SetLastSyncTimestamp(ctx context.Context, profileID int64, at time.Time) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO options (profile_id, name, value) VALUES (?, ?, ?)
		ON CONFLICT(profile_id, name) DO UPDATE SET value = excluded.value`,
		profileID, optLastSync, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("setting last sync time: %w", err)
	}
	return nil
}

// LastSync returns when the profile was last synced. ok is false if it never
// was.
func (db *DB) LastSync(ctx context.Context, profileID int64) (at time.Time, ok bool, err error) {
	var v string
	err = db.conn.QueryRowContext(ctx, `
		SELECT value FROM options WHERE profile_id = ? AND name = ?`, profileID, optLastSync).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading last sync time: %w", err)
	}
	at, err = time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing last sync time %q: %w", v, err)
	}
	return at, true, nil
}
