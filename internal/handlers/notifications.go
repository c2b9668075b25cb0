package handlers

import "net/http"

// NotificationHandler exposes the notification log.
type NotificationHandler struct {
	Log NotificationLog
}

// List handles GET /api/v1/notifications.
func (h NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Log == nil {
		respondError(ctx, w, http.StatusInternalServerError, "notification log unavailable")
		return
	}
	entries := h.Log.List(ctx)
	unread := 0
	for _, n := range entries {
		if !n.Read {
			unread++
		}
	}
	respondJSON(ctx, w, http.StatusOK, map[string]any{"notifications": entries, "unread": unread})
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (h NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Log == nil {
		respondError(ctx, w, http.StatusInternalServerError, "notification log unavailable")
		return
	}
	ok, err := h.Log.MarkRead(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /api/v1/notifications/read.
func (h NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Log == nil {
		respondError(ctx, w, http.StatusInternalServerError, "notification log unavailable")
		return
	}
	if err := h.Log.MarkAllRead(ctx); err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/v1/notifications/{id}.
func (h NotificationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Log == nil {
		respondError(ctx, w, http.StatusInternalServerError, "notification log unavailable")
		return
	}
	ok, err := h.Log.Remove(ctx, r.PathValue("id"))
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to remove notification")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/v1/notifications.
func (h NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Log == nil {
		respondError(ctx, w, http.StatusInternalServerError, "notification log unavailable")
		return
	}
	if err := h.Log.Clear(ctx); err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to clear notifications")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
