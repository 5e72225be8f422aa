package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libertsolutions/libertvendas/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository sobre la tabla settings.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

func (r *SettingsRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *SettingsRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("postgres: put setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("postgres: delete setting %s: %w", key, err)
	}
	return nil
}
