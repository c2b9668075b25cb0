package handlers

import (
	"context"
	"time"

	"github.com/reelzone/backend/internal/auth"
	"github.com/reelzone/backend/internal/catalog"
	"github.com/reelzone/backend/internal/models"
)

// Catalog captures the video collection operations used by the HTTP layer.
type Catalog interface {
	Find(ctx context.Context, q catalog.Query) []models.Video
	Get(ctx context.Context, id string) (models.Video, bool)
	Add(ctx context.Context, draft models.Draft) (models.Video, error)
	Update(ctx context.Context, id string, patch models.Patch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	IncrementClicks(ctx context.Context, id string) (bool, error)
	Recent(ctx context.Context, limit int) []models.Video
	Top(ctx context.Context, limit int) []models.Video
	AllTags(ctx context.Context) []string
}

// FeaturedPointer captures the spotlight operations.
type FeaturedPointer interface {
	Get(ctx context.Context) (models.Video, bool)
	Set(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
	AddAsFeatured(ctx context.Context, draft models.Draft) (models.Video, error)
	UpdateFeatured(ctx context.Context, patch models.Patch) (bool, error)
}

// NotificationLog captures the notification log operations.
type NotificationLog interface {
	List(ctx context.Context) []models.Notification
	UnreadCount(ctx context.Context) int
	MarkRead(ctx context.Context, id string) (bool, error)
	MarkAllRead(ctx context.Context) error
	Remove(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// FavoriteSet captures the favorites operations.
type FavoriteSet interface {
	List(ctx context.Context) []string
	Contains(ctx context.Context, id string) bool
	Add(ctx context.Context, id string) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	Toggle(ctx context.Context, id string) (bool, error)
}

// AdminAuth is the admin session track.
type AdminAuth interface {
	Login(ctx context.Context, email, secret string) (bool, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (models.AdminSession, bool)
	TimeRemaining(ctx context.Context) time.Duration
}

// UserAuth is the end-user session track.
type UserAuth interface {
	Register(ctx context.Context, name, email, secret string) (auth.Result, error)
	Login(ctx context.Context, email, secret string) (auth.Result, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, bool)
	TimeRemaining(ctx context.Context) time.Duration
}
