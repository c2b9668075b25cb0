// Package favorites keeps the profile's set of favorite video ids.
package favorites

import (
	"context"
	"sync"

	"github.com/reelzone/backend/internal/kv"
)

// Set is the favorite id set persisted under kv.KeyFavorites as a JSON array.
// Membership is idempotent and unordered.
type Set struct {
	store kv.Store
	mu    sync.Mutex
}

// NewSet constructs a Set over the durable store.
func NewSet(store kv.Store) *Set {
	if store == nil {
		panic("favorites: store must not be nil")
	}
	return &Set{store: store}
}

// List returns the member ids.
func (s *Set) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Contains reports whether id is a favorite.
func (s *Set) Contains(ctx context.Context, id string) bool {
	for _, member := range s.List(ctx) {
		if member == id {
			return true
		}
	}
	return false
}

// Add makes id a favorite. It reports whether the set changed.
func (s *Set) Add(ctx context.Context, id string) (bool, error) {
	return s.update(ctx, func(ids []string) ([]string, bool) {
		if indexOf(ids, id) >= 0 {
			return ids, false
		}
		return append(ids, id), true
	})
}

// Remove drops id from the set. It reports whether the set changed.
func (s *Set) Remove(ctx context.Context, id string) (bool, error) {
	return s.update(ctx, func(ids []string) ([]string, bool) {
		i := indexOf(ids, id)
		if i < 0 {
			return ids, false
		}
		return append(ids[:i], ids[i+1:]...), true
	})
}

// Toggle flips membership of id and returns the new state.
func (s *Set) Toggle(ctx context.Context, id string) (bool, error) {
	member := false
	_, err := s.update(ctx, func(ids []string) ([]string, bool) {
		if i := indexOf(ids, id); i >= 0 {
			return append(ids[:i], ids[i+1:]...), true
		}
		member = true
		return append(ids, id), true
	})
	if err != nil {
		return false, err
	}
	return member, nil
}

func (s *Set) update(ctx context.Context, fn func([]string) ([]string, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, changed := fn(s.load(ctx))
	if !changed {
		return false, nil
	}
	if err := kv.Save(ctx, s.store, kv.KeyFavorites, ids); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Set) load(ctx context.Context) []string {
	ids := []string{}
	kv.Load(ctx, s.store, kv.KeyFavorites, &ids)
	return ids
}

func indexOf(ids []string, id string) int {
	for i, member := range ids {
		if member == id {
			return i
		}
	}
	return -1
}
