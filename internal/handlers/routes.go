package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/middleware"
	"github.com/reelzone/backend/internal/videos"
)

// Dependencies bundles the services required by the HTTP handlers.
type Dependencies struct {
	Profile       string
	Durable       kv.Store
	Catalog       Catalog
	Featured      FeaturedPointer
	Notifications NotificationLog
	Favorites     FavoriteSet
	Admin         AdminAuth
	Users         UserAuth
	VideoMetadata videos.Provider
	// LoginLimiter throttles both login endpoints per client. Nil disables throttling.
	LoginLimiter middleware.RateLimiter
	// TrustForwardedFor keys the login limiter by X-Forwarded-For. Enable only behind a proxy.
	TrustForwardedFor bool
}

// RegisterRoutes attaches all API routes to the provided mux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Profile: deps.Profile, Store: deps.Durable}
	mux.HandleFunc("GET /healthz", health.Handle)
	mux.Handle("GET /metrics", promhttp.Handler())

	admin := deps.Admin
	var limitOpts []middleware.RateLimitOption
	if deps.TrustForwardedFor {
		limitOpts = append(limitOpts, middleware.TrustForwardedFor())
	}
	limit := func(scope string, h http.HandlerFunc) http.Handler {
		return middleware.RateLimit(deps.LoginLimiter, scope, limitOpts...)(h)
	}

	adminHandler := AdminHandler{Admin: admin}
	mux.Handle("POST /api/v1/admin/login", limit("admin-login", adminHandler.Login))
	mux.HandleFunc("POST /api/v1/admin/logout", requireAdmin(admin, adminHandler.Logout))
	mux.HandleFunc("GET /api/v1/admin/session", adminHandler.Session)

	userHandler := UserHandler{Users: deps.Users}
	mux.HandleFunc("POST /api/v1/auth/register", userHandler.Register)
	mux.Handle("POST /api/v1/auth/login", limit("user-login", userHandler.Login))
	mux.HandleFunc("POST /api/v1/auth/logout", userHandler.Logout)
	mux.HandleFunc("GET /api/v1/auth/session", userHandler.Session)

	videoHandler := VideoHandler{Catalog: deps.Catalog, Metadata: deps.VideoMetadata}
	mux.HandleFunc("GET /api/v1/videos", videoHandler.List)
	mux.HandleFunc("POST /api/v1/videos", requireAdmin(admin, videoHandler.Create))
	mux.HandleFunc("GET /api/v1/videos/recent", videoHandler.Recent)
	mux.HandleFunc("GET /api/v1/videos/top", videoHandler.Top)
	mux.HandleFunc("GET /api/v1/videos/{id}", videoHandler.Get)
	mux.HandleFunc("PATCH /api/v1/videos/{id}", requireAdmin(admin, videoHandler.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{id}", requireAdmin(admin, videoHandler.Delete))
	mux.HandleFunc("POST /api/v1/videos/{id}/view", videoHandler.View)
	mux.HandleFunc("GET /api/v1/tags", videoHandler.Tags)

	featuredHandler := FeaturedHandler{Featured: deps.Featured, Metadata: deps.VideoMetadata}
	mux.HandleFunc("GET /api/v1/featured", featuredHandler.Get)
	mux.HandleFunc("PUT /api/v1/featured", requireAdmin(admin, featuredHandler.Set))
	mux.HandleFunc("POST /api/v1/featured", requireAdmin(admin, featuredHandler.Create))
	mux.HandleFunc("PATCH /api/v1/featured", requireAdmin(admin, featuredHandler.Update))
	mux.HandleFunc("DELETE /api/v1/featured", requireAdmin(admin, featuredHandler.Clear))

	notificationHandler := NotificationHandler{Log: deps.Notifications}
	mux.HandleFunc("GET /api/v1/notifications", notificationHandler.List)
	mux.HandleFunc("POST /api/v1/notifications/read", notificationHandler.MarkAllRead)
	mux.HandleFunc("POST /api/v1/notifications/{id}/read", notificationHandler.MarkRead)
	mux.HandleFunc("DELETE /api/v1/notifications/{id}", notificationHandler.Remove)
	mux.HandleFunc("DELETE /api/v1/notifications", notificationHandler.Clear)

	favoriteHandler := FavoriteHandler{Favorites: deps.Favorites}
	mux.HandleFunc("GET /api/v1/favorites", favoriteHandler.List)
	mux.HandleFunc("GET /api/v1/favorites/{id}", favoriteHandler.Get)
	mux.HandleFunc("PUT /api/v1/favorites/{id}", favoriteHandler.Add)
	mux.HandleFunc("DELETE /api/v1/favorites/{id}", favoriteHandler.Remove)
	mux.HandleFunc("POST /api/v1/favorites/{id}/toggle", favoriteHandler.Toggle)
}
