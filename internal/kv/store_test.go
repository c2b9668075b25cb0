package kv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/kv/kvtest"
)

func TestMemoryStoreContract(t *testing.T) {
	kvtest.Run(t, kv.NewMemoryStore())
}

func TestFileStoreContract(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	kvtest.Run(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := kv.NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := first.Set(ctx, kv.KeyFeatured, []byte(`"vid-1"`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	second, err := kv.NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Get(ctx, kv.KeyFeatured)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != `"vid-1"` {
		t.Fatalf("unexpected value %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, kv.KeyFeatured+".json.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("temporary file should not linger: %v", err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Set(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("expected error for key containing a path separator")
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'z'

	got, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("store should keep its own copy, got %q", got)
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Remove(context.Context, string) error        { return f.err }

func TestLoadDegradesToDefault(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	tests := []struct {
		name  string
		store kv.Store
		raw   []byte
	}{
		{name: "absent", store: store},
		{name: "corrupt", store: store, raw: []byte(`{not json`)},
		{name: "wrong shape", store: store, raw: []byte(`{"id":"x"}`)},
		{name: "empty", store: store, raw: []byte{}},
		{name: "backend failure", store: failingStore{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = store.Remove(ctx, "list")
			if tt.raw != nil {
				if err := store.Set(ctx, "list", tt.raw); err != nil {
					t.Fatalf("seed: %v", err)
				}
			}

			items := []string{}
			if kv.Load(ctx, tt.store, "list", &items) {
				t.Fatal("expected Load to report false")
			}
			if items == nil || len(items) != 0 {
				t.Fatalf("expected default to be preserved, got %#v", items)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	if err := kv.Save(ctx, store, kv.KeyFavorites, []string{"a", "b"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got []string
	if !kv.Load(ctx, store, kv.KeyFavorites, &got) {
		t.Fatal("expected load to succeed")
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected favorites %v", got)
	}

	if err := kv.Save(ctx, failingStore{err: errors.New("down")}, kv.KeyFavorites, []string{}); err == nil {
		t.Fatal("expected save to surface backend errors")
	}
}

func TestSubstrateIn(t *testing.T) {
	durable, session := kv.NewMemoryStore(), kv.NewMemoryStore()
	sub := kv.Substrate{Durable: durable, Session: session}

	if sub.In(kv.Durable) != durable || sub.In(kv.Session) != session {
		t.Fatal("substrate returned the wrong scope")
	}
	if kv.Session.String() != "session" || kv.Durable.String() != "durable" {
		t.Fatal("unexpected scope names")
	}
}

func TestLoadDoesNotPartiallyDecode(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	if err := store.Set(ctx, "records", []byte(`[{"name":"ok"},{"name":42}]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	type record struct {
		Name string `json:"name"`
	}
	got := []record{{Name: "default"}}
	if kv.Load(ctx, store, "records", &got) {
		t.Fatal("expected mismatched element to fail the load")
	}
	if len(got) != 1 || got[0].Name != "default" {
		t.Fatalf("expected default to survive, got %+v", got)
	}
}
