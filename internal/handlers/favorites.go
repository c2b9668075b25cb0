package handlers

import "net/http"

// FavoriteHandler exposes the favorites set.
type FavoriteHandler struct {
	Favorites FavoriteSet
}

type favoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
	Changed  bool   `json:"changed"`
}

// List handles GET /api/v1/favorites.
func (h FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Favorites == nil {
		respondError(ctx, w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"ids": h.Favorites.List(ctx)})
}

// Get handles GET /api/v1/favorites/{id}.
func (h FavoriteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Favorites == nil {
		respondError(ctx, w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	id := r.PathValue("id")
	respondJSON(ctx, w, http.StatusOK, favoriteResponse{ID: id, Favorite: h.Favorites.Contains(ctx, id)})
}

// Add handles PUT /api/v1/favorites/{id}.
func (h FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Favorites == nil {
		respondError(ctx, w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	id := r.PathValue("id")
	changed, err := h.Favorites.Add(ctx, id)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to add favorite")
		return
	}
	respondJSON(ctx, w, http.StatusOK, favoriteResponse{ID: id, Favorite: true, Changed: changed})
}

// Remove handles DELETE /api/v1/favorites/{id}.
func (h FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Favorites == nil {
		respondError(ctx, w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	id := r.PathValue("id")
	changed, err := h.Favorites.Remove(ctx, id)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}
	respondJSON(ctx, w, http.StatusOK, favoriteResponse{ID: id, Favorite: false, Changed: changed})
}

// Toggle handles POST /api/v1/favorites/{id}/toggle.
func (h FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Favorites == nil {
		respondError(ctx, w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	id := r.PathValue("id")
	member, err := h.Favorites.Toggle(ctx, id)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}
	respondJSON(ctx, w, http.StatusOK, favoriteResponse{ID: id, Favorite: member, Changed: true})
}
