// Package auth implements the two independent session tracks: a single fixed admin
// identity and registered end users. Sessions live in the session scope and expire lazily.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/metrics"
)

const (
	// DefaultAdminTTL is how long an admin login lasts.
	DefaultAdminTTL = 2 * time.Hour
	// DefaultUserTTL is how long an end-user login lasts.
	DefaultUserTTL = 24 * time.Hour
)

var (
	// ErrInvalidCredentials indicates an email and secret pair that does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken indicates a registration for an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

// Track is the read side shared by both session tracks.
type Track interface {
	Name() string
	IsAuthenticated(ctx context.Context) bool
	TimeRemaining(ctx context.Context) time.Duration
}

type options struct {
	now      func() time.Time
	hashCost int
}

// Option configures a track.
type Option func(*options)

// WithClock overrides the time source used for issuing and checking sessions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithHashCost overrides the bcrypt cost used when hashing new secrets.
func WithHashCost(cost int) Option {
	return func(o *options) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			o.hashCost = cost
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// HashSecret returns the bcrypt hash stored for secret.
func HashSecret(secret string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func secretMatches(hash, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

func randomToken() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func remaining(expiresAt, now time.Time) time.Duration {
	if d := expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// expire destroys an expired session record. A failed removal is logged; the caller still
// treats the session as gone.
func expire(ctx context.Context, store kv.Store, key, track string) {
	metrics.SessionsExpiredTotal.WithLabelValues(track).Inc()
	if err := store.Remove(ctx, key); err != nil {
		logging.FromContext(ctx).Warn("remove expired session", "track", track, "error", err)
		return
	}
	logging.FromContext(ctx).Info("session expired", "track", track)
}
