package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/reelzone/backend/internal/auth"
	"github.com/reelzone/backend/internal/cache"
	"github.com/reelzone/backend/internal/catalog"
	"github.com/reelzone/backend/internal/config"
	"github.com/reelzone/backend/internal/db"
	"github.com/reelzone/backend/internal/events"
	"github.com/reelzone/backend/internal/favorites"
	"github.com/reelzone/backend/internal/handlers"
	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/middleware"
	"github.com/reelzone/backend/internal/notifications"
	"github.com/reelzone/backend/internal/repositories"
	"github.com/reelzone/backend/internal/storage"
	"github.com/reelzone/backend/internal/videos"
)

// services holds every wired component for one profile and the teardown for the
// connections they opened.
type services struct {
	cfg       config.Config
	substrate kv.Substrate
	log       *notifications.Log
	catalog   *catalog.Repository
	featured  *catalog.Featured
	favorites *favorites.Set
	admin     *auth.AdminTrack
	users     *auth.UserTrack
	metadata  videos.Provider

	closers []func() error
}

// buildServices opens the configured backends and wires the catalog services over them.
// On error everything opened so far is closed again.
func buildServices(ctx context.Context, cfg config.Config) (_ *services, err error) {
	svc := &services{cfg: cfg}
	defer func() {
		if err != nil {
			_ = svc.Close()
		}
	}()

	if svc.substrate.Durable, err = svc.openDurable(ctx); err != nil {
		return nil, err
	}
	if svc.substrate.Session, err = svc.openSession(ctx); err != nil {
		return nil, err
	}

	svc.log = notifications.NewLog(svc.substrate.Durable, notifications.WithCap(cfg.NotificationCap))
	svc.catalog = catalog.NewRepository(svc.substrate.Durable, svc.log)
	svc.featured = catalog.NewFeatured(svc.catalog)
	svc.favorites = favorites.NewSet(svc.substrate.Durable)

	if cfg.Admin.PasswordHash == "" {
		slog.Warn("admin password hash is not configured, admin login is disabled; generate one with `reelzone hash-password`")
	}
	svc.admin = auth.NewAdminTrack(svc.substrate.Session, auth.AdminCredentials{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	}, cfg.Admin.SessionTTL)
	svc.users = auth.NewUserTrack(svc.substrate.Durable, svc.substrate.Session, cfg.UserSessionTTL)

	if cfg.MetadataAutofill {
		ytDlp := videos.NewYTDLPProvider(cfg.YTDLPPath, cfg.YTDLPTimeout)
		svc.metadata = videos.NewCachingProvider(ytDlp, cfg.MetadataCacheTTL)
	}

	if cfg.Events.AMQPURL != "" {
		publisher, err := events.Dial(cfg.Events.AMQPURL, cfg.Events.Exchange, cfg.Profile)
		if err != nil {
			return nil, err
		}
		unsubscribe := svc.log.Subscribe(publisher)
		svc.closers = append(svc.closers, func() error {
			unsubscribe()
			return publisher.Close()
		})
	}

	return svc, nil
}

func (s *services) openDurable(ctx context.Context) (kv.Store, error) {
	cfg := s.cfg
	switch cfg.DurableBackend {
	case "memory":
		return kv.NewMemoryStore(), nil
	case "file", "":
		return kv.NewFileStore(filepath.Join(cfg.DataDir, cfg.Profile))
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		return repositories.NewPostgresStore(pool, cfg.Profile)
	case "s3":
		objectCfg := cfg.ObjectStore
		objectCfg.Prefix = objectCfg.Prefix + cfg.Profile + "/"
		return storage.NewS3Store(ctx, objectCfg)
	default:
		return nil, fmt.Errorf("unknown durable backend %q", cfg.DurableBackend)
	}
}

func (s *services) openSession(ctx context.Context) (kv.Store, error) {
	cfg := s.cfg
	switch cfg.SessionBackend {
	case "memory", "":
		return kv.NewMemoryStore(), nil
	case "redis":
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		return cache.NewRedisStore(client, cfg.Profile,
			cache.WithKeyTTL(kv.KeyAdminSession, cfg.Admin.SessionTTL),
			cache.WithKeyTTL(kv.KeyUserSession, cfg.UserSessionTTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// Dependencies exposes the services to the HTTP layer.
func (s *services) Dependencies() handlers.Dependencies {
	cfg := s.cfg
	deps := handlers.Dependencies{
		Profile:       cfg.Profile,
		Durable:       s.substrate.Durable,
		Catalog:       s.catalog,
		Featured:      s.featured,
		Notifications: s.log,
		Favorites:     s.favorites,
		Admin:         s.admin,
		Users:         s.users,

		TrustForwardedFor: cfg.TrustProxy,
	}
	if s.metadata != nil {
		deps.VideoMetadata = s.metadata
	}
	if cfg.LoginRateLimit > 0 {
		deps.LoginLimiter = middleware.NewKeyedRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, cfg.LoginRateBurst, 10*cfg.LoginRateWindow)
	}
	return deps
}

// Close releases backend connections in reverse order of opening.
func (s *services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
