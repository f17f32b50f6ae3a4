package repository

import (
	"context"
	"fmt"

	"quiniela/database"
	"quiniela/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	q Queryable
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) interfaces.SettingsRepository {
	return &settingsRepository{q: db.Pool}
}

// newSettingsRepository creates a new settings repository bound to a transaction
func newSettingsRepository(tx Queryable) interfaces.SettingsRepository {
	return &settingsRepository{q: tx}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*string, error) {
	query := `
		SELECT value
		FROM app_settings
		WHERE key = $1`

	var value string
	err := r.q.QueryRow(ctx, query, key).Scan(&value)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return &value, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	_, err := r.q.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}
