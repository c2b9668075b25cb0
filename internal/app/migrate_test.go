package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700))

	names, err := listMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, names)

	_, err = listMigrations(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestShippedMigrationsAreListed(t *testing.T) {
	names, err := listMigrations(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.Contains(t, names, "0001_kv_entries.sql")
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "serialization failure", err: fmt.Errorf("apply: %w", &pgconn.PgError{Code: "40001"}), want: true},
		{name: "deadlock", err: &pgconn.PgError{Code: "40P01"}, want: true},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "closed tx", err: pgx.ErrTxClosed, want: true},
		{name: "other", err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestMigrationBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), migrationBackoff(0))
	assert.Equal(t, 100*time.Millisecond, migrationBackoff(1))
	assert.Equal(t, 200*time.Millisecond, migrationBackoff(2))
	assert.Equal(t, migrationMaxBackoff, migrationBackoff(10))
	assert.Equal(t, migrationMaxBackoff, migrationBackoff(80))
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	cfg := testConfig(t)
	assert.ErrorContains(t, runMigrations(context.Background(), cfg, []string{"sideways"}), "sideways")
	assert.Error(t, runMigrations(context.Background(), cfg, []string{"down"}))
}
