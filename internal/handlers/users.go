package handlers

import (
	"errors"
	"net/http"

	"github.com/reelzone/backend/internal/auth"
	"github.com/reelzone/backend/internal/models"
)

// UserHandler exposes registration and the end-user session.
type UserHandler struct {
	Users UserAuth
}

type userSessionResponse struct {
	Authenticated    bool         `json:"authenticated"`
	User             *models.User `json:"user,omitempty"`
	RemainingSeconds int64        `json:"remainingSeconds"`
}

// Register handles POST /api/v1/auth/register.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		respondError(ctx, w, http.StatusInternalServerError, "user auth unavailable")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to register account")
		return
	}
	switch {
	case result.Success:
		respondJSON(ctx, w, http.StatusCreated, result)
	case errors.Is(result.Err, auth.ErrEmailTaken):
		respondJSON(ctx, w, http.StatusConflict, result)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, result)
	}
}

// Login handles POST /api/v1/auth/login.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		respondError(ctx, w, http.StatusInternalServerError, "user auth unavailable")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to start session")
		return
	}
	if !result.Success {
		respondJSON(ctx, w, http.StatusUnauthorized, result)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

// Logout handles POST /api/v1/auth/logout.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		respondError(ctx, w, http.StatusInternalServerError, "user auth unavailable")
		return
	}
	if err := h.Users.Logout(ctx); err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/v1/auth/session.
func (h UserHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Users == nil {
		respondError(ctx, w, http.StatusInternalServerError, "user auth unavailable")
		return
	}

	user, ok := h.Users.CurrentUser(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusOK, userSessionResponse{})
		return
	}
	respondJSON(ctx, w, http.StatusOK, userSessionResponse{
		Authenticated:    true,
		User:             &user,
		RemainingSeconds: seconds(h.Users.TimeRemaining(ctx)),
	})
}
