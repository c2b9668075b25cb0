package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/metrics"
	"github.com/reelzone/backend/internal/models"
)

const (
	userTrackName = "user"
	// MinSecretLength is the shortest secret accepted at registration.
	MinSecretLength = 6
)

// Result is the user-facing outcome of a register or login attempt. Err carries the
// sentinel behind a failure for callers that branch on it.
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Err     error        `json:"-"`
}

func failure(err error) Result {
	return Result{Message: err.Error(), Err: err}
}

// UserTrack manages registered accounts, stored durably under kv.KeyUsers, and the end-user
// session stored under kv.KeyUserSession.
type UserTrack struct {
	users    kv.Store
	sessions kv.Store
	ttl      time.Duration
	now      func() time.Time
	hashCost int

	mu sync.Mutex
}

// NewUserTrack constructs a UserTrack. A non-positive ttl selects DefaultUserTTL.
func NewUserTrack(users, sessions kv.Store, ttl time.Duration, opts ...Option) *UserTrack {
	if users == nil || sessions == nil {
		panic("auth: user and session stores must not be nil")
	}
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	o := buildOptions(opts)
	return &UserTrack{users: users, sessions: sessions, ttl: ttl, now: o.now, hashCost: o.hashCost}
}

// Name implements Track.
func (u *UserTrack) Name() string { return userTrackName }

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. It does not start a session.
func (u *UserTrack) Register(ctx context.Context, name, email, secret string) (Result, error) {
	logger := logging.FromContext(ctx)

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" {
		return failure(errors.New("name and email are required")), nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return failure(errors.New("invalid email address")), nil
	}
	if len(secret) < MinSecretLength {
		return failure(fmt.Errorf("password must be at least %d characters", MinSecretLength)), nil
	}

	hashed, err := HashSecret(secret, u.hashCost)
	if err != nil {
		return Result{}, fmt.Errorf("hash secret: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	records := u.loadUsers(ctx)
	if _, ok := findUser(records, email); ok {
		logger.Warn("registration for existing account", "email", email)
		return failure(ErrEmailTaken), nil
	}

	user := models.User{ID: uuid.NewString(), Name: name, Email: email, CreatedAt: u.now().UTC()}
	records = append(records, models.UserRecord{User: user, PasswordHash: hashed})
	if err := kv.Save(ctx, u.users, kv.KeyUsers, records); err != nil {
		return Result{}, err
	}

	logger.Info("user registered", "user_id", user.ID)
	return Result{Success: true, Message: "account created", User: &user}, nil
}

// Login starts a user session when the credential matches a registered account.
func (u *UserTrack) Login(ctx context.Context, email, secret string) (Result, error) {
	logger := logging.FromContext(ctx)
	email = NormalizeEmail(email)

	u.mu.Lock()
	defer u.mu.Unlock()

	record, ok := findUser(u.loadUsers(ctx), email)
	ok = ok && secretMatches(record.PasswordHash, secret)
	metrics.LoginAttemptsTotal.WithLabelValues(userTrackName, metrics.Outcome(ok)).Inc()
	if !ok {
		logger.Warn("user login rejected", "email", email)
		return failure(ErrInvalidCredentials), nil
	}

	token, err := randomToken()
	if err != nil {
		return Result{}, fmt.Errorf("generate user token: %w", err)
	}
	session := models.UserSession{
		User:      record.User,
		Token:     token,
		ExpiresAt: models.NewTimestamp(u.now().Add(u.ttl)),
	}
	if err := kv.Save(ctx, u.sessions, kv.KeyUserSession, session); err != nil {
		return Result{}, err
	}

	logger.Info("user logged in", "user_id", record.ID)
	user := record.User
	return Result{Success: true, Message: "logged in", User: &user}, nil
}

// Logout ends the user session. Logging out with no session is a no-op.
func (u *UserTrack) Logout(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.sessions.Remove(ctx, kv.KeyUserSession); err != nil {
		return fmt.Errorf("remove user session: %w", err)
	}
	return nil
}

// Session returns the live user session. An expired session is destroyed and reported absent.
func (u *UserTrack) Session(ctx context.Context) (models.UserSession, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var session models.UserSession
	if !kv.Load(ctx, u.sessions, kv.KeyUserSession, &session) {
		return models.UserSession{}, false
	}
	if !session.Valid(u.now()) {
		expire(ctx, u.sessions, kv.KeyUserSession, userTrackName)
		return models.UserSession{}, false
	}
	return session, true
}

// IsAuthenticated reports whether a live user session exists.
func (u *UserTrack) IsAuthenticated(ctx context.Context) bool {
	_, ok := u.Session(ctx)
	return ok
}

// CurrentUser returns the user behind the live session.
func (u *UserTrack) CurrentUser(ctx context.Context) (models.User, bool) {
	session, ok := u.Session(ctx)
	if !ok {
		return models.User{}, false
	}
	return session.User, true
}

// TimeRemaining returns how long the user session has left, or zero without one.
func (u *UserTrack) TimeRemaining(ctx context.Context) time.Duration {
	session, ok := u.Session(ctx)
	if !ok {
		return 0
	}
	return remaining(session.ExpiresAt.Time(), u.now())
}

func (u *UserTrack) loadUsers(ctx context.Context) []models.UserRecord {
	records := []models.UserRecord{}
	kv.Load(ctx, u.users, kv.KeyUsers, &records)
	return records
}

func findUser(records []models.UserRecord, email string) (models.UserRecord, bool) {
	for _, r := range records {
		if r.Email == email {
			return r, true
		}
	}
	return models.UserRecord{}, false
}
