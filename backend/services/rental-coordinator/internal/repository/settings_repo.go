package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository stores coordinator-level key/value settings, including
// the authorized billing device designation.
type SettingsRepository struct {
	db DB
}

// NewSettingsRepository returns repository.
func NewSettingsRepository(db DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored value, or empty string when the key is unset.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	const query = `
		SELECT value
		FROM app_settings
		WHERE key = $1
	`
	var value string
	if err := r.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Set upserts the value. An empty value clears the key.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	if value == "" {
		const del = `DELETE FROM app_settings WHERE key = $1`
		_, err := r.db.Exec(ctx, del, key)
		return err
	}
	const query = `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err := r.db.Exec(ctx, query, key, value)
	return err
}
