package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelzone/backend/internal/kv"
)

const adminEmail = "r33lz0n3@admin.acess"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newAdmin(t *testing.T, clock *fakeClock) (*AdminTrack, *kv.MemoryStore) {
	t.Helper()
	hash, err := HashSecret("letmein", bcrypt.MinCost)
	require.NoError(t, err)
	store := kv.NewMemoryStore()
	track := NewAdminTrack(store, AdminCredentials{Email: adminEmail, PasswordHash: hash}, 0, WithClock(clock.Now))
	return track, store
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	admin, store := newAdmin(t, clock)

	ok, err := admin.Login(ctx, adminEmail, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, admin.IsAuthenticated(ctx))
	assert.False(t, store.Has(kv.KeyAdminSession))

	ok, err = admin.Login(ctx, "someone@else.com", "letmein")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = admin.Login(ctx, adminEmail, "letmein")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, admin.IsAuthenticated(ctx))
	assert.Equal(t, DefaultAdminTTL, admin.TimeRemaining(ctx))

	require.NoError(t, admin.Logout(ctx))
	assert.False(t, admin.IsAuthenticated(ctx))
	assert.Zero(t, admin.TimeRemaining(ctx))
	require.NoError(t, admin.Logout(ctx))
}

func TestAdminLoginDisabledWithoutHash(t *testing.T) {
	admin := NewAdminTrack(kv.NewMemoryStore(), AdminCredentials{Email: adminEmail}, time.Hour)
	ok, err := admin.Login(context.Background(), adminEmail, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminSessionExpiresLazily(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	admin, store := newAdmin(t, clock)

	ok, err := admin.Login(ctx, adminEmail, "letmein")
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(DefaultAdminTTL - time.Second)
	assert.Equal(t, time.Second, admin.TimeRemaining(ctx))
	assert.True(t, store.Has(kv.KeyAdminSession))

	clock.Advance(time.Second)
	assert.True(t, store.Has(kv.KeyAdminSession), "nothing checked the session yet")
	assert.False(t, admin.IsAuthenticated(ctx))
	assert.False(t, store.Has(kv.KeyAdminSession), "expired session must be destroyed on read")
	assert.Zero(t, admin.TimeRemaining(ctx))
}

func TestAdminTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	admin, _ := newAdmin(t, newFakeClock())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		ok, err := admin.Login(ctx, adminEmail, "letmein")
		require.NoError(t, err)
		require.True(t, ok)
		session, ok := admin.Session(ctx)
		require.True(t, ok)
		require.False(t, seen[session.Token])
		seen[session.Token] = true
	}
}

func TestCorruptSessionReadsAsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	admin, store := newAdmin(t, newFakeClock())
	require.NoError(t, store.Set(ctx, kv.KeyAdminSession, []byte("{")))

	assert.False(t, admin.IsAuthenticated(ctx))
	assert.Zero(t, admin.TimeRemaining(ctx))
}
