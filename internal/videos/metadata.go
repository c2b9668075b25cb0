package videos

import (
	"context"
	"strings"

	"github.com/reelzone/backend/internal/logging"
	"github.com/reelzone/backend/internal/models"
)

// Metadata is what a provider knows about a hosted video.
type Metadata struct {
	Title       string
	Description string
	Cover       string
	Tags        []string
}

// Provider returns metadata for a video URL.
type Provider interface {
	Lookup(ctx context.Context, url string) (Metadata, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, url string) (Metadata, error)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(ctx context.Context, url string) (Metadata, error) {
	return f(ctx, url)
}

// Autofill fills the blank title, description, cover and tags of draft from provider.
// Fields the author already set are never overwritten. A nil provider, a blank URL or a
// failed lookup leave the draft unchanged.
func Autofill(ctx context.Context, provider Provider, draft models.Draft) models.Draft {
	if provider == nil || strings.TrimSpace(draft.URL) == "" {
		return draft
	}

	meta, err := provider.Lookup(ctx, draft.URL)
	if err != nil {
		logging.FromContext(ctx).Warn("video metadata lookup failed", "url", draft.URL, "error", err)
		return draft
	}

	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = meta.Title
	}
	if strings.TrimSpace(draft.Description) == "" {
		draft.Description = meta.Description
	}
	if strings.TrimSpace(draft.Cover) == "" {
		draft.Cover = meta.Cover
	}
	if len(draft.Tags) == 0 && len(meta.Tags) > 0 {
		draft.Tags = append([]string(nil), meta.Tags...)
	}
	return draft
}
