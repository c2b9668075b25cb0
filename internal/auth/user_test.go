package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelzone/backend/internal/kv"
)

func newUsers(t *testing.T, clock *fakeClock) (*UserTrack, *kv.MemoryStore, *kv.MemoryStore) {
	t.Helper()
	durable := kv.NewMemoryStore()
	session := kv.NewMemoryStore()
	return NewUserTrack(durable, session, 0, WithClock(clock.Now), WithHashCost(bcrypt.MinCost)), durable, session
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	users, durable, session := newUsers(t, clock)

	res, err := users.Register(ctx, "Maria Santos", " Maria@Email.com ", "maria123")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.User)
	assert.Equal(t, "maria@email.com", res.User.Email)
	assert.False(t, users.IsAuthenticated(ctx), "register must not start a session")

	raw, err := durable.Get(ctx, kv.KeyUsers)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "maria123"), "secret stored in the clear")

	res, err = users.Login(ctx, "MARIA@email.com", "maria123")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	current, ok := users.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "Maria Santos", current.Name)
	assert.Equal(t, DefaultUserTTL, users.TimeRemaining(ctx))
	assert.True(t, session.Has(kv.KeyUserSession))

	require.NoError(t, users.Logout(ctx))
	_, ok = users.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users, _, _ := newUsers(t, newFakeClock())

	res, err := users.Register(ctx, "João Silva", "joao@email.com", "senha123")
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = users.Register(ctx, "Another João", "JOAO@email.com", "other123")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Err, ErrEmailTaken))
	assert.NotEmpty(t, res.Message)
	assert.Nil(t, res.User)

	res, err = users.Login(ctx, "joao@email.com", "other123")
	require.NoError(t, err)
	assert.False(t, res.Success, "the original credential must still be the only one")
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	users, _, _ := newUsers(t, newFakeClock())

	tests := []struct {
		name, email, secret string
	}{
		{name: "", email: "a@b.com", secret: "123456"},
		{name: "A", email: "", secret: "123456"},
		{name: "A", email: "not-an-email", secret: "123456"},
		{name: "A", email: "a@b.com", secret: "12345"},
	}
	for _, tt := range tests {
		res, err := users.Register(ctx, tt.name, tt.email, tt.secret)
		require.NoError(t, err)
		assert.False(t, res.Success, "%+v", tt)
		assert.NotEmpty(t, res.Message)
	}
}

func TestLoginFailure(t *testing.T) {
	ctx := context.Background()
	users, _, session := newUsers(t, newFakeClock())

	res, err := users.Login(ctx, "nobody@email.com", "123456")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrInvalidCredentials)

	_, err = users.Register(ctx, "User", "user@exemplo.com", "123456")
	require.NoError(t, err)
	res, err = users.Login(ctx, "user@exemplo.com", "654321")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.False(t, session.Has(kv.KeyUserSession))
}

func TestUserSessionExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	users, _, session := newUsers(t, clock)

	_, err := users.Register(ctx, "User", "user@exemplo.com", "123456")
	require.NoError(t, err)
	res, err := users.Login(ctx, "user@exemplo.com", "123456")
	require.NoError(t, err)
	require.True(t, res.Success)

	clock.Advance(DefaultUserTTL)
	_, ok := users.CurrentUser(ctx)
	assert.False(t, ok)
	assert.False(t, session.Has(kv.KeyUserSession))
	assert.Zero(t, users.TimeRemaining(ctx))
}

func TestTracksAreIndependent(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := kv.NewMemoryStore()

	hash, err := HashSecret("letmein", bcrypt.MinCost)
	require.NoError(t, err)
	admin := NewAdminTrack(store, AdminCredentials{Email: adminEmail, PasswordHash: hash}, 0, WithClock(clock.Now))
	users := NewUserTrack(kv.NewMemoryStore(), store, 0, WithClock(clock.Now), WithHashCost(bcrypt.MinCost))

	ok, err := admin.Login(ctx, adminEmail, "letmein")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, users.IsAuthenticated(ctx))

	_, err = users.Register(ctx, "User", "user@exemplo.com", "123456")
	require.NoError(t, err)
	_, err = users.Login(ctx, "user@exemplo.com", "123456")
	require.NoError(t, err)

	clock.Advance(3 * time.Hour)
	assert.False(t, admin.IsAuthenticated(ctx))
	assert.True(t, users.IsAuthenticated(ctx), "admin expiry must not touch the user session")

	require.NoError(t, users.Logout(ctx))
	assert.False(t, users.IsAuthenticated(ctx))
}
