// Package kv is the persistence substrate: byte values under string keys, in a durable
// scope and a session scope.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/reelzone/backend/internal/logging"
)

// ErrNotFound indicates no value is stored under the requested key.
var ErrNotFound = errors.New("kv: key not found")

// Key names for every collection the catalog persists.
const (
	KeyVideos        = "reelzone_videos"
	KeyFeatured      = "reelzone_featured"
	KeyNotifications = "reelzone_notifications"
	KeyFavorites     = "reelzone_favorites"
	KeyUsers         = "reelzone_users"
	KeyAdminSession  = "reelzone_admin_session"
	KeyUserSession   = "reelzone_user_session"
)

// Store is a key-value store. Implementations must be safe for concurrent use.
// Remove on an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Scope identifies the lifetime of stored values.
type Scope int

const (
	// Durable values survive restarts.
	Durable Scope = iota
	// Session values live only as long as the current session.
	Session
)

func (s Scope) String() string {
	switch s {
	case Durable:
		return "durable"
	case Session:
		return "session"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Substrate bundles the two lifetime scopes.
type Substrate struct {
	Durable Store
	Session Store
}

// In returns the store for the provided scope.
func (s Substrate) In(scope Scope) Store {
	if scope == Session {
		return s.Session
	}
	return s.Durable
}

// Load decodes the JSON value stored under key into dest. It reports false when the key is
// absent, the store cannot be read or the value is corrupt; dest is only written after a
// complete decode, so callers keep whatever default they placed there.
func Load(ctx context.Context, store Store, key string, dest any) bool {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.FromContext(ctx).Warn("kv read failed, using default", "key", key, "error", err)
		}
		return false
	}
	if len(raw) == 0 {
		return false
	}
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false
	}
	decoded := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, decoded.Interface()); err != nil {
		logging.FromContext(ctx).Warn("kv value corrupt, using default", "key", key, "error", err)
		return false
	}
	target.Elem().Set(decoded.Elem())
	return true
}

// Save encodes value as JSON and stores it under key.
func Save(ctx context.Context, store Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
