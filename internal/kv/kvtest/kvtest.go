// Package kvtest holds conformance checks shared by every kv.Store implementation.
package kvtest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/reelzone/backend/internal/kv"
)

// Run exercises the Store contract against store. The store must start empty.
func Run(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, kv.KeyVideos); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key got %v", err)
	}

	if err := store.Set(ctx, kv.KeyVideos, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, kv.KeyVideos)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte(`[{"id":"a"}]`)) {
		t.Fatalf("unexpected value %q", got)
	}

	if err := store.Set(ctx, kv.KeyVideos, []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = store.Get(ctx, kv.KeyVideos)
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("expected overwritten value got %q", got)
	}

	if err := store.Set(ctx, kv.KeyFavorites, []byte(`["a"]`)); err != nil {
		t.Fatalf("set second key: %v", err)
	}

	if err := store.Remove(ctx, kv.KeyVideos); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, kv.KeyVideos); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove got %v", err)
	}
	if err := store.Remove(ctx, kv.KeyVideos); err != nil {
		t.Fatalf("removing an absent key should succeed, got %v", err)
	}

	if _, err := store.Get(ctx, kv.KeyFavorites); err != nil {
		t.Fatalf("unrelated key should survive remove: %v", err)
	}
}
