package handlers

import (
	"net/http"
	"strings"

	"github.com/reelzone/backend/internal/models"
	"github.com/reelzone/backend/internal/videos"
)

// FeaturedHandler exposes the spotlight video.
type FeaturedHandler struct {
	Featured FeaturedPointer
	Metadata videos.Provider
}

// Get handles GET /api/v1/featured.
func (h FeaturedHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Featured == nil {
		respondError(ctx, w, http.StatusInternalServerError, "featured pointer unavailable")
		return
	}

	video, ok := h.Featured.Get(ctx)
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "no featured video")
		return
	}
	respondJSON(ctx, w, http.StatusOK, videoView{Video: video})
}

// Set handles PUT /api/v1/featured with a body of {"id": "..."}.
func (h FeaturedHandler) Set(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Featured == nil {
		respondError(ctx, w, http.StatusInternalServerError, "featured pointer unavailable")
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.ID) == "" {
		respondError(ctx, w, http.StatusBadRequest, "id is required")
		return
	}

	ok, err := h.Featured.Set(ctx, req.ID)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to feature video")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "video not found")
		return
	}

	video, _ := h.Featured.Get(ctx)
	respondJSON(ctx, w, http.StatusOK, videoView{Video: video})
}

// Create handles POST /api/v1/featured: the draft joins the catalog and becomes the spotlight.
func (h FeaturedHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Featured == nil {
		respondError(ctx, w, http.StatusInternalServerError, "featured pointer unavailable")
		return
	}

	draft, ok := readDraft(w, r, h.Metadata)
	if !ok {
		return
	}

	video, err := h.Featured.AddAsFeatured(ctx, draft)
	if err != nil {
		if video.ID != "" {
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]any{
				"error": "video added but could not be featured",
				"video": videoView{Video: video},
			})
			return
		}
		respondError(ctx, w, http.StatusInternalServerError, "failed to add video")
		return
	}
	respondJSON(ctx, w, http.StatusCreated, videoView{Video: video})
}

// Update handles PATCH /api/v1/featured.
func (h FeaturedHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Featured == nil {
		respondError(ctx, w, http.StatusInternalServerError, "featured pointer unavailable")
		return
	}

	var patch models.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid patch")
		return
	}

	ok, err := h.Featured.UpdateFeatured(ctx, patch)
	if err != nil {
		respondCatalogError(ctx, w, err, "failed to update featured video")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "no featured video")
		return
	}

	video, _ := h.Featured.Get(ctx)
	respondJSON(ctx, w, http.StatusOK, videoView{Video: video})
}

// Clear handles DELETE /api/v1/featured. The video itself stays in the catalog.
func (h FeaturedHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Featured == nil {
		respondError(ctx, w, http.StatusInternalServerError, "featured pointer unavailable")
		return
	}
	if err := h.Featured.Clear(ctx); err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to clear featured video")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
