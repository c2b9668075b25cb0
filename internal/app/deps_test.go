package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelzone/backend/internal/config"
	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/models"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Profile:          "kids",
		DataDir:          t.TempDir(),
		DurableBackend:   "memory",
		SessionBackend:   "memory",
		Admin:            config.AdminConfig{Email: config.DefaultAdminEmail, SessionTTL: time.Hour},
		UserSessionTTL:   24 * time.Hour,
		NotificationCap:  5,
		LoginRateLimit:   5,
		LoginRateWindow:  time.Minute,
		LoginRateBurst:   5,
		MetadataAutofill: true,
		YTDLPPath:        "yt-dlp",
		YTDLPTimeout:     time.Second,
		MetadataCacheTTL: time.Minute,
	}
}

func TestBuildServicesInMemory(t *testing.T) {
	svc, err := buildServices(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, svc.Close()) })

	deps := svc.Dependencies()
	assert.Equal(t, "kids", deps.Profile)
	assert.NotNil(t, deps.Catalog)
	assert.NotNil(t, deps.Featured)
	assert.NotNil(t, deps.Notifications)
	assert.NotNil(t, deps.Favorites)
	assert.NotNil(t, deps.Admin)
	assert.NotNil(t, deps.Users)
	assert.NotNil(t, deps.VideoMetadata)
	assert.NotNil(t, deps.LoginLimiter)
	assert.False(t, deps.TrustForwardedFor)
	assert.Same(t, svc.substrate.Durable, deps.Durable)
}

func TestBuildServicesWithoutOptionalParts(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetadataAutofill = false
	cfg.LoginRateLimit = 0
	cfg.TrustProxy = true

	svc, err := buildServices(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	deps := svc.Dependencies()
	assert.Nil(t, deps.VideoMetadata, "a disabled provider must be a nil interface")
	assert.Nil(t, deps.LoginLimiter)
	assert.True(t, deps.TrustForwardedFor)
}

func TestBuildServicesFileBackendPerProfile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.DurableBackend = "file"

	svc, err := buildServices(ctx, cfg)
	require.NoError(t, err)
	_, err = svc.catalog.Add(ctx, models.Draft{Title: "Nightfall", URL: "https://youtu.be/n", Kind: models.Movie{}})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	entries, err := os.ReadDir(filepath.Join(cfg.DataDir, "kids"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	reopened, err := buildServices(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	assert.Len(t, reopened.catalog.List(ctx), 1, "file backend survives a restart")

	cfg.Profile = "adults"
	other, err := buildServices(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close() })
	assert.Empty(t, other.catalog.List(ctx), "profiles do not share a catalog")
}

func TestBuildServicesRedisSessions(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.SessionBackend = "redis"
	cfg.Redis = config.RedisConfig{Addr: mr.Addr()}

	svc, err := buildServices(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, kv.Save(ctx, svc.substrate.Session, kv.KeyAdminSession, models.AdminSession{Token: "t"}))
	assert.True(t, mr.Exists("kids:"+kv.KeyAdminSession))
	assert.Equal(t, time.Hour, mr.TTL("kids:"+kv.KeyAdminSession))
}

func TestBuildServicesRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.SessionBackend = "redis"
	cfg.Redis = config.RedisConfig{Addr: addr}

	_, err := buildServices(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildServicesRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.DurableBackend = "sqlite"

	_, err := buildServices(context.Background(), cfg)
	assert.ErrorContains(t, err, "sqlite")

	cfg = testConfig(t)
	cfg.DurableBackend = "s3"
	_, err = buildServices(context.Background(), cfg)
	assert.ErrorContains(t, err, "bucket is required")
}

func TestCloseRunsClosersInReverse(t *testing.T) {
	var order []int
	svc := &services{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return assert.AnError },
	}}

	err := svc.Close()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, svc.Close(), "closing twice is a no-op")
}
