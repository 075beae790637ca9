package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Well-known settings keys.
const (
	SettingBackupDirectory = "backup_directory"
	SettingLiveCheckpoint  = "live_session_checkpoint"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite { return &SettingsSQLite{db: db} }

// Get returns the stored value, or "" when the key is absent.
func (r *SettingsSQLite) Get(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key=?`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Put upserts a key-value pair.
func (r *SettingsSQLite) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`, key, value)
	return err
}

// Delete removes a key; deleting an absent key is not an error.
func (r *SettingsSQLite) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key=?`, key)
	return err
}
