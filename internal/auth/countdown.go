package auth

import (
	"context"
	"time"
)

// Countdown polls track every interval and reports the remaining session time until ctx is
// cancelled. Each poll goes through the lazy expiry check, so an idle expired session is
// destroyed within one interval. report is also called once immediately.
func Countdown(ctx context.Context, interval time.Duration, track Track, report func(remaining time.Duration)) {
	if interval <= 0 {
		interval = time.Second
	}

	report(track.TimeRemaining(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report(track.TimeRemaining(ctx))
		}
	}
}
