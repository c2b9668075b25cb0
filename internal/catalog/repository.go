// Package catalog owns the video collection and the featured pointer into it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/metrics"
	"github.com/reelzone/backend/internal/models"
)

// Notifier records catalog events for the notification log.
type Notifier interface {
	Append(ctx context.Context, message string) (models.Notification, error)
}

// Repository is the video collection persisted under kv.KeyVideos, newest first.
type Repository struct {
	store    kv.Store
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu sync.Mutex
}

// NewRepository constructs a Repository. notifier may be nil.
func NewRepository(store kv.Store, notifier Notifier) *Repository {
	if store == nil {
		panic("catalog: store must not be nil")
	}
	return &Repository{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock overrides the time source used for created_at.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

// List returns every video in storage order.
func (r *Repository) List(ctx context.Context) []models.Video {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Get returns the video with id.
func (r *Repository) Get(ctx context.Context, id string) (models.Video, bool) {
	for _, v := range r.List(ctx) {
		if v.ID == id {
			return v, true
		}
	}
	return models.Video{}, false
}

// Add stores a new video built from draft at the front of the catalog and posts an
// "added" notification.
func (r *Repository) Add(ctx context.Context, draft models.Draft) (video models.Video, err error) {
	ctx, span := logging.StartSpan(ctx, "catalog.add")
	defer func() { span.End(err) }()

	r.mu.Lock()
	video = draft.Materialize(r.newID(), r.now().UTC())
	videos := append([]models.Video{video}, r.load(ctx)...)
	err = r.save(ctx, videos)
	r.mu.Unlock()
	if err != nil {
		return models.Video{}, err
	}

	metrics.VideosAddedTotal.WithLabelValues(string(video.Category())).Inc()
	logging.FromContext(ctx).Info("video added", "video_id", video.ID, "category", video.Category())

	if r.notifier != nil {
		if _, nerr := r.notifier.Append(ctx, AddedMessage(video)); nerr != nil {
			logging.FromContext(ctx).Warn("record added notification", "video_id", video.ID, "error", nerr)
		}
	}

	return video.Clone(), nil
}

// AddedMessage is the notification text posted when video joins the catalog.
func AddedMessage(video models.Video) string {
	return fmt.Sprintf("%s \"%s\" added.", video.Category(), video.Title)
}

// Update merges patch into the video with id. It reports false when id is unknown.
func (r *Repository) Update(ctx context.Context, id string, patch models.Patch) (bool, error) {
	var patchErr error
	ok, err := r.mutate(ctx, id, func(v models.Video) (models.Video, bool) {
		updated, err := patch.Apply(v)
		if err != nil {
			patchErr = err
			return v, false
		}
		return updated, true
	})
	if patchErr != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidPatch, patchErr)
	}
	return ok, err
}

// IncrementClicks records one view of the video with id.
func (r *Repository) IncrementClicks(ctx context.Context, id string) (bool, error) {
	ok, err := r.mutate(ctx, id, func(v models.Video) (models.Video, bool) {
		v.Clicks++
		return v, true
	})
	if ok {
		metrics.VideoViewsTotal.Inc()
	}
	return ok, err
}

// Delete removes the video with id and clears the featured pointer when it points at it.
// Failing to clear the pointer is only logged: the video is gone and a dangling pointer
// reads as absent.
func (r *Repository) Delete(ctx context.Context, id string) (deleted bool, err error) {
	ctx, span := logging.StartSpan(ctx, "catalog.delete")
	defer func() { span.End(err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	videos := r.load(ctx)
	kept := videos[:0]
	for _, v := range videos {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(videos) {
		return false, nil
	}
	if err := r.save(ctx, kept); err != nil {
		return false, err
	}

	var featured string
	if kv.Load(ctx, r.store, kv.KeyFeatured, &featured) && featured == id {
		if rerr := r.store.Remove(ctx, kv.KeyFeatured); rerr != nil {
			logging.FromContext(ctx).Warn("clear featured pointer", "video_id", id, "error", rerr)
		} else {
			logging.FromContext(ctx).Info("featured video deleted, pointer cleared", "video_id", id)
		}
	}

	metrics.VideosDeletedTotal.Inc()
	return true, nil
}

// Search matches term case-insensitively against title, description, tags and category.
// A blank term returns the whole catalog.
func (r *Repository) Search(ctx context.Context, term string) []models.Video {
	return filter(r.List(ctx), searchMatcher(term))
}

// ByCategory returns the videos in category.
func (r *Repository) ByCategory(ctx context.Context, category models.Category) []models.Video {
	return filter(r.List(ctx), func(v models.Video) bool { return v.Category() == category })
}

// ByTag returns the videos with a tag containing tag, case-insensitively.
func (r *Repository) ByTag(ctx context.Context, tag string) []models.Video {
	return filter(r.List(ctx), tagMatcher(tag))
}

// Recent returns up to limit videos, newest created first. limit <= 0 means all.
func (r *Repository) Recent(ctx context.Context, limit int) []models.Video {
	videos := r.List(ctx)
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].CreatedAt.After(videos[j].CreatedAt) })
	return truncate(videos, limit)
}

// Top returns up to limit videos with the most clicks first. limit <= 0 means all.
func (r *Repository) Top(ctx context.Context, limit int) []models.Video {
	videos := r.List(ctx)
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Clicks > videos[j].Clicks })
	return truncate(videos, limit)
}

// AllTags returns the sorted, de-duplicated union of every tag.
func (r *Repository) AllTags(ctx context.Context) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, v := range r.List(ctx) {
		for _, tag := range v.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

func (r *Repository) mutate(ctx context.Context, id string, fn func(models.Video) (models.Video, bool)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	videos := r.load(ctx)
	for i := range videos {
		if videos[i].ID != id {
			continue
		}
		updated, ok := fn(videos[i])
		if !ok {
			return false, nil
		}
		videos[i] = updated
		if err := r.save(ctx, videos); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// load decodes each record on its own so one unreadable entry does not hide the rest.
// Skipped records are dropped on the next save.
func (r *Repository) load(ctx context.Context) []models.Video {
	var records []json.RawMessage
	if !kv.Load(ctx, r.store, kv.KeyVideos, &records) {
		return []models.Video{}
	}

	videos := make([]models.Video, 0, len(records))
	for i, raw := range records {
		var v models.Video
		if err := json.Unmarshal(raw, &v); err != nil {
			logging.FromContext(ctx).Warn("skipping unreadable video record", "index", i, "error", err)
			continue
		}
		videos = append(videos, v)
	}
	return videos
}

func (r *Repository) save(ctx context.Context, videos []models.Video) error {
	return kv.Save(ctx, r.store, kv.KeyVideos, videos)
}

func searchMatcher(term string) func(models.Video) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	return func(v models.Video) bool {
		if needle == "" {
			return true
		}
		if containsFold(v.Title, needle) || containsFold(v.Description, needle) || containsFold(string(v.Category()), needle) {
			return true
		}
		for _, tag := range v.Tags {
			if containsFold(tag, needle) {
				return true
			}
		}
		return false
	}
}

func tagMatcher(tag string) func(models.Video) bool {
	needle := strings.ToLower(strings.TrimSpace(tag))
	return func(v models.Video) bool {
		for _, t := range v.Tags {
			if containsFold(t, needle) {
				return true
			}
		}
		return false
	}
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

func filter(videos []models.Video, keep func(models.Video) bool) []models.Video {
	out := []models.Video{}
	for _, v := range videos {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func truncate(videos []models.Video, limit int) []models.Video {
	if limit > 0 && len(videos) > limit {
		return videos[:limit]
	}
	return videos
}
