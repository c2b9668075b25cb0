package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/metrics"
	"github.com/reelzone/backend/internal/models"
)

const adminTrackName = "admin"

// AdminCredentials is the single admin identity. PasswordHash is a bcrypt hash; when it is
// empty every admin login fails.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// AdminTrack guards the authoring surface with a short-lived session stored under
// kv.KeyAdminSession.
type AdminTrack struct {
	store kv.Store
	creds AdminCredentials
	ttl   time.Duration
	now   func() time.Time

	mu sync.Mutex
}

// NewAdminTrack constructs an AdminTrack over the session store. A non-positive ttl selects
// DefaultAdminTTL.
func NewAdminTrack(store kv.Store, creds AdminCredentials, ttl time.Duration, opts ...Option) *AdminTrack {
	if store == nil {
		panic("auth: session store must not be nil")
	}
	if ttl <= 0 {
		ttl = DefaultAdminTTL
	}
	o := buildOptions(opts)
	return &AdminTrack{store: store, creds: creds, ttl: ttl, now: o.now}
}

// Name implements Track.
func (a *AdminTrack) Name() string { return adminTrackName }

// Login starts a new admin session when email and secret match the configured identity.
// It reports false on a mismatch and returns an error only when the session cannot be stored.
func (a *AdminTrack) Login(ctx context.Context, email, secret string) (bool, error) {
	logger := logging.FromContext(ctx)

	ok := strings.TrimSpace(email) == a.creds.Email && secretMatches(a.creds.PasswordHash, secret)
	metrics.LoginAttemptsTotal.WithLabelValues(adminTrackName, metrics.Outcome(ok)).Inc()
	if !ok {
		logger.Warn("admin login rejected")
		return false, nil
	}

	token, err := randomToken()
	if err != nil {
		return false, fmt.Errorf("generate admin token: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	session := models.AdminSession{Token: token, ExpiresAt: models.NewTimestamp(a.now().Add(a.ttl))}
	if err := kv.Save(ctx, a.store, kv.KeyAdminSession, session); err != nil {
		return false, err
	}
	logger.Info("admin logged in", "expires_at", session.ExpiresAt.Time())
	return true, nil
}

// Logout ends the admin session. Logging out with no session is a no-op.
func (a *AdminTrack) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Remove(ctx, kv.KeyAdminSession); err != nil {
		return fmt.Errorf("remove admin session: %w", err)
	}
	return nil
}

// Session returns the live admin session. An expired session is destroyed and reported absent.
func (a *AdminTrack) Session(ctx context.Context) (models.AdminSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var session models.AdminSession
	if !kv.Load(ctx, a.store, kv.KeyAdminSession, &session) {
		return models.AdminSession{}, false
	}
	if !session.Valid(a.now()) {
		expire(ctx, a.store, kv.KeyAdminSession, adminTrackName)
		return models.AdminSession{}, false
	}
	return session, true
}

// IsAuthenticated reports whether a live admin session exists.
func (a *AdminTrack) IsAuthenticated(ctx context.Context) bool {
	_, ok := a.Session(ctx)
	return ok
}

// TimeRemaining returns how long the admin session has left, or zero without one.
func (a *AdminTrack) TimeRemaining(ctx context.Context) time.Duration {
	session, ok := a.Session(ctx)
	if !ok {
		return 0
	}
	return remaining(session.ExpiresAt.Time(), a.now())
}
