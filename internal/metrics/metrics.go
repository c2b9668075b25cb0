// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelzone_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelzone_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	VideosAddedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelzone_videos_added_total",
			Help: "Total number of videos added to the catalog",
		},
		[]string{"category"},
	)

	VideosDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelzone_videos_deleted_total",
			Help: "Total number of videos deleted from the catalog",
		},
	)

	VideoViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelzone_video_views_total",
			Help: "Total number of recorded video views",
		},
	)

	NotificationsAppendedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelzone_notifications_appended_total",
			Help: "Total number of notifications appended to the log",
		},
	)

	// LoginAttemptsTotal is labelled by track (admin, user) and outcome (success, failure).
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelzone_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"track", "outcome"},
	)

	SessionsExpiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelzone_sessions_expired_total",
			Help: "Total number of sessions destroyed by lazy expiry",
		},
		[]string{"track"},
	)
)

// Outcome maps a boolean result onto the outcome label value.
func Outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
