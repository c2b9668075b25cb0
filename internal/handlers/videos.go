package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/reelzone/backend/internal/catalog"
	"github.com/reelzone/backend/internal/models"
	"github.com/reelzone/backend/internal/videos"
)

const defaultListLimit = 10

// VideoHandler exposes the catalog.
type VideoHandler struct {
	Catalog  Catalog
	Metadata videos.Provider
}

// List handles GET /api/v1/videos with optional q, category, tag, sort and order filters.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	params := r.URL.Query()
	q := catalog.Query{Term: params.Get("q"), Tag: params.Get("tag")}

	if raw := params.Get("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		q.Category = category
	}

	field, order, err := catalog.ParseSort(params.Get("sort"), params.Get("order"))
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	q.Sort, q.Order = field, order

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": viewsOf(h.Catalog.Find(ctx, q))})
}

// Create handles POST /api/v1/videos. Blank title, description, cover and tags are filled
// from the metadata provider when one is configured.
func (h VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	draft, ok := readDraft(w, r, h.Metadata)
	if !ok {
		return
	}

	video, err := h.Catalog.Add(ctx, draft)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to add video")
		return
	}
	respondJSON(ctx, w, http.StatusCreated, videoView{Video: video})
}

// respondCatalogError maps an invalid patch to 400 and anything else to 500.
func respondCatalogError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	if errors.Is(err, catalog.ErrInvalidPatch) {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(ctx, w, http.StatusInternalServerError, message)
}

// readDraft decodes, autofills and validates a draft. It writes the error response itself.
func readDraft(w http.ResponseWriter, r *http.Request, metadata videos.Provider) (models.Draft, bool) {
	ctx := r.Context()

	var draft models.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video: "+err.Error())
		return models.Draft{}, false
	}
	draft.URL = strings.TrimSpace(draft.URL)
	if draft.URL == "" {
		respondError(ctx, w, http.StatusBadRequest, "url is required")
		return models.Draft{}, false
	}

	draft = videos.Autofill(ctx, metadata, draft)
	if strings.TrimSpace(draft.Title) == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return models.Draft{}, false
	}
	return draft, true
}

// Get handles GET /api/v1/videos/{id}.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	video, ok := h.Catalog.Get(ctx, r.PathValue("id"))
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}
	respondJSON(ctx, w, http.StatusOK, videoView{Video: video})
}

// Update handles PATCH /api/v1/videos/{id}.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	var patch models.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid patch")
		return
	}

	id := r.PathValue("id")
	ok, err := h.Catalog.Update(ctx, id, patch)
	if err != nil {
		respondCatalogError(ctx, w, err, "failed to update video")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}

	video, _ := h.Catalog.Get(ctx, id)
	respondJSON(ctx, w, http.StatusOK, videoView{Video: video})
}

// Delete handles DELETE /api/v1/videos/{id}.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	ok, err := h.Catalog.Delete(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to delete video")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// View handles POST /api/v1/videos/{id}/view.
func (h VideoHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	id := r.PathValue("id")
	ok, err := h.Catalog.IncrementClicks(ctx, id)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to record view")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}

	video, _ := h.Catalog.Get(ctx, id)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"id": id, "clicks": video.Clicks})
}

// Recent handles GET /api/v1/videos/recent.
func (h VideoHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	h.ranked(w, r, h.Catalog.Recent)
}

// Top handles GET /api/v1/videos/top.
func (h VideoHandler) Top(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	h.ranked(w, r, h.Catalog.Top)
}

func (h VideoHandler) ranked(w http.ResponseWriter, r *http.Request, rank func(ctx context.Context, limit int) []models.Video) {
	ctx := r.Context()
	limit, err := queryLimit(r, defaultListLimit)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": viewsOf(rank(ctx, limit))})
}

// Tags handles GET /api/v1/tags.
func (h VideoHandler) Tags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Catalog == nil {
		respondError(ctx, w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"tags": h.Catalog.AllTags(ctx)})
}
