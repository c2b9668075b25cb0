package catalog

import (
	"context"
	"fmt"

	"github.com/reelzone/backend/internal/kv"
	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/models"
)

// Featured is the single spotlight pointer into the catalog, persisted under kv.KeyFeatured.
// It shares the repository's lock so a delete and a set can never interleave.
type Featured struct {
	repo *Repository
}

// NewFeatured returns the featured pointer for repo.
func NewFeatured(repo *Repository) *Featured {
	if repo == nil {
		panic("catalog: repository must not be nil")
	}
	return &Featured{repo: repo}
}

// Set points the spotlight at id. It reports false when no such video exists.
func (f *Featured) Set(ctx context.Context, id string) (bool, error) {
	r := f.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := find(r.load(ctx), id); !ok {
		return false, nil
	}
	if err := kv.Save(ctx, r.store, kv.KeyFeatured, id); err != nil {
		return false, err
	}
	return true, nil
}

// ID returns the stored pointer, which may reference a video that no longer exists.
func (f *Featured) ID(ctx context.Context) (string, bool) {
	r := f.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	if !kv.Load(ctx, r.store, kv.KeyFeatured, &id) || id == "" {
		return "", false
	}
	return id, true
}

// Get resolves the pointer. It reports false when nothing is featured or the
// referenced video is gone.
func (f *Featured) Get(ctx context.Context) (models.Video, bool) {
	id, ok := f.ID(ctx)
	if !ok {
		return models.Video{}, false
	}
	return f.repo.Get(ctx, id)
}

// Clear removes the pointer.
func (f *Featured) Clear(ctx context.Context) error {
	r := f.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Remove(ctx, kv.KeyFeatured); err != nil {
		return fmt.Errorf("clear featured pointer: %w", err)
	}
	return nil
}

// AddAsFeatured adds draft to the catalog and spotlights it. The two writes are not
// atomic: if the second fails the video stays in the catalog unfeatured and the error
// is returned together with the stored video.
func (f *Featured) AddAsFeatured(ctx context.Context, draft models.Draft) (models.Video, error) {
	video, err := f.repo.Add(ctx, draft)
	if err != nil {
		return models.Video{}, err
	}

	ok, err := f.Set(ctx, video.ID)
	if err != nil {
		logging.FromContext(ctx).Error("video added but not featured", "video_id", video.ID, "error", err)
		return video, fmt.Errorf("feature video %s: %w", video.ID, err)
	}
	if !ok {
		return video, fmt.Errorf("feature video %s: deleted before it could be featured", video.ID)
	}
	return video, nil
}

// UpdateFeatured applies patch to the featured video. It reports false when nothing is
// featured or the pointer is dangling.
func (f *Featured) UpdateFeatured(ctx context.Context, patch models.Patch) (bool, error) {
	id, ok := f.ID(ctx)
	if !ok {
		return false, nil
	}
	return f.repo.Update(ctx, id, patch)
}

func find(videos []models.Video, id string) (models.Video, bool) {
	for _, v := range videos {
		if v.ID == id {
			return v, true
		}
	}
	return models.Video{}, false
}
