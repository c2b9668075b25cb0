// Package notifications keeps the capped log of system messages and delivers new entries
// to subscribers.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/metrics"
	"github.com/reelzone/backend/internal/models"
)

// DefaultCap is the number of entries kept when no cap is configured.
const DefaultCap = 50

// Subscriber receives each notification right after it is appended. Notify runs
// synchronously on the appending goroutine.
type Subscriber interface {
	Notify(ctx context.Context, n models.Notification)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, n models.Notification)

// Notify implements Subscriber.
func (f SubscriberFunc) Notify(ctx context.Context, n models.Notification) { f(ctx, n) }

type subscription struct {
	id  uint64
	sub Subscriber
}

// Log is the append-only, capped notification log persisted under kv.KeyNotifications.
type Log struct {
	store kv.Store
	cap   int
	now   func() time.Time

	mu sync.Mutex

	subMu  sync.RWMutex
	subs   []subscription
	nextID uint64
}

// Option configures a Log.
type Option func(*Log)

// WithCap overrides the maximum number of retained entries.
func WithCap(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.cap = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLog constructs a Log over the durable store.
func NewLog(store kv.Store, opts ...Option) *Log {
	if store == nil {
		panic("notifications: store must not be nil")
	}
	l := &Log{store: store, cap: DefaultCap, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers sub and returns a function that removes it again.
func (l *Log) Subscribe(sub Subscriber) (unsubscribe func()) {
	l.subMu.Lock()
	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscription{id: id, sub: sub})
	l.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.subMu.Lock()
			defer l.subMu.Unlock()
			for i, s := range l.subs {
				if s.id == id {
					l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Append records message as a new unread notification, drops entries beyond the cap and
// then notifies subscribers in registration order.
func (l *Log) Append(ctx context.Context, message string) (models.Notification, error) {
	n := models.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: l.now().UTC(),
	}

	l.mu.Lock()
	entries := append([]models.Notification{n}, l.load(ctx)...)
	if len(entries) > l.cap {
		entries = entries[:l.cap]
	}
	err := kv.Save(ctx, l.store, kv.KeyNotifications, entries)
	l.mu.Unlock()
	if err != nil {
		return models.Notification{}, err
	}

	metrics.NotificationsAppendedTotal.Inc()
	l.publish(ctx, n)
	return n, nil
}

// List returns the log, newest first.
func (l *Log) List(ctx context.Context) []models.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// UnreadCount counts entries not yet marked read.
func (l *Log) UnreadCount(ctx context.Context) int {
	count := 0
	for _, n := range l.List(ctx) {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one entry as read. It reports false when id is unknown.
func (l *Log) MarkRead(ctx context.Context, id string) (bool, error) {
	return l.mutate(ctx, func(entries []models.Notification) ([]models.Notification, bool) {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Read = true
				return entries, true
			}
		}
		return entries, false
	})
}

// MarkAllRead flags every entry as read.
func (l *Log) MarkAllRead(ctx context.Context) error {
	_, err := l.mutate(ctx, func(entries []models.Notification) ([]models.Notification, bool) {
		for i := range entries {
			entries[i].Read = true
		}
		return entries, len(entries) > 0
	})
	return err
}

// Remove deletes one entry. It reports false when id is unknown.
func (l *Log) Remove(ctx context.Context, id string) (bool, error) {
	return l.mutate(ctx, func(entries []models.Notification) ([]models.Notification, bool) {
		for i := range entries {
			if entries[i].ID == id {
				return append(entries[:i], entries[i+1:]...), true
			}
		}
		return entries, false
	})
}

// Clear removes every entry.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Remove(ctx, kv.KeyNotifications); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func (l *Log) mutate(ctx context.Context, fn func([]models.Notification) ([]models.Notification, bool)) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, changed := fn(l.load(ctx))
	if !changed {
		return false, nil
	}
	if err := kv.Save(ctx, l.store, kv.KeyNotifications, entries); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Log) load(ctx context.Context) []models.Notification {
	entries := []models.Notification{}
	kv.Load(ctx, l.store, kv.KeyNotifications, &entries)
	return entries
}

func (l *Log) publish(ctx context.Context, n models.Notification) {
	l.subMu.RLock()
	subs := append([]subscription(nil), l.subs...)
	l.subMu.RUnlock()

	for _, s := range subs {
		l.deliver(ctx, s.sub, n)
	}
}

func (l *Log) deliver(ctx context.Context, sub Subscriber, n models.Notification) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromContext(ctx).Error("notification subscriber panicked", slog.Any("panic", rec), slog.String("notification_id", n.ID))
		}
	}()
	sub.Notify(ctx, n)
}
