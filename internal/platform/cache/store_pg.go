package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists cache entries in the cached_data table.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Get(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	var value []byte
	var expiresAt time.Time

	err := s.pool.QueryRow(ctx,
		`SELECT cache_value, expires_at FROM cached_data WHERE cache_key = $1`,
		key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("select cached_data: %w", err)
	}

	if !expiresAt.After(time.Now().UTC()) {
		// Lazy expiry: dead rows are removed when touched.
		_, _ = s.pool.Exec(ctx, `DELETE FROM cached_data WHERE cache_key = $1`, key)
		return nil, time.Time{}, false, nil
	}

	return value, expiresAt, true, nil
}

func (s *PGStore) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cached_data (cache_key, cache_value, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (cache_key)
		 DO UPDATE SET cache_value = EXCLUDED.cache_value,
		               expires_at  = EXCLUDED.expires_at,
		               updated_at  = NOW()`,
		key, value, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert cached_data: %w", err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cached_data WHERE cache_key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete cached_data: %w", err)
	}
	return nil
}

func (s *PGStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cached_data WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired cached_data: %w", err)
	}
	return tag.RowsAffected(), nil
}
