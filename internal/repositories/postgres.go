// Package repositories keeps the durable scope in PostgreSQL, one row per key and profile.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/reelzone/backend/internal/db"
	"github.com/reelzone/backend/internal/kv"
)

// PostgresStore implements kv.Store on the kv_entries table. Each profile sees only its
// own rows, so several catalogs can share one database.
type PostgresStore struct {
	pool    db.Pool
	profile string
}

// NewPostgresStore returns a store scoped to profile.
func NewPostgresStore(pool db.Pool, profile string) (*PostgresStore, error) {
	if pool == nil {
		panic("repositories: pool must not be nil")
	}
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return nil, ErrEmptyProfile
	}
	return &PostgresStore{pool: pool, profile: profile}, nil
}

// Get implements kv.Store.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var value []byte
	err = conn.QueryRow(ctx, `
        SELECT value
        FROM kv_entries
        WHERE profile = $1 AND key = $2
    `, s.profile, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("select kv entry %s: %w", key, err)
	}
	return value, nil
}

// Set implements kv.Store.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO kv_entries (profile, key, value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (profile, key)
        DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `, s.profile, key, value)
	if err != nil {
		return fmt.Errorf("upsert kv entry %s: %w", key, err)
	}
	return nil
}

// Remove implements kv.Store.
func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM kv_entries WHERE profile = $1 AND key = $2`, s.profile, key); err != nil {
		return fmt.Errorf("delete kv entry %s: %w", key, err)
	}
	return nil
}

var _ kv.Store = (*PostgresStore)(nil)
