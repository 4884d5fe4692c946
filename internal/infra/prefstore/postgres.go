package prefstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
)

// PostgresBackend stores records in the dashboard_preferences table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend constructs the backend.
func NewPostgresBackend(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

// EnsureSchema creates the table when missing.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	_, err := b.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboard_preferences (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (b *PostgresBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.pool.QueryRow(ctx, `SELECT value FROM dashboard_preferences WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key, value string) error {
	_, err := b.pool.Exec(ctx, `
		INSERT INTO dashboard_preferences (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	return err
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	_, err := b.pool.Exec(ctx, `DELETE FROM dashboard_preferences WHERE key = $1`, key)
	return err
}

var _ preferences.Backend = (*PostgresBackend)(nil)
