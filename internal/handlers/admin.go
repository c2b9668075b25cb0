package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// AdminHandler exposes the admin session endpoints.
type AdminHandler struct {
	Admin AdminAuth
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminSessionResponse struct {
	Authenticated    bool   `json:"authenticated"`
	Token            string `json:"token,omitempty"`
	ExpiresAt        int64  `json:"expiresAt,omitempty"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

// Login handles POST /api/v1/admin/login.
func (h AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Admin == nil {
		respondError(ctx, w, http.StatusInternalServerError, "admin auth unavailable")
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "email and password are required")
		return
	}

	ok, err := h.Admin.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to start admin session")
		return
	}
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session, ok := h.Admin.Session(ctx)
	if !ok {
		respondError(ctx, w, http.StatusInternalServerError, "admin session not persisted")
		return
	}
	respondJSON(ctx, w, http.StatusOK, adminSessionResponse{
		Authenticated:    true,
		Token:            session.Token,
		ExpiresAt:        int64(session.ExpiresAt),
		RemainingSeconds: seconds(h.Admin.TimeRemaining(ctx)),
	})
}

// Logout handles POST /api/v1/admin/logout.
func (h AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Admin.Logout(ctx); err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "failed to end admin session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/v1/admin/session. Only the holder of the token sees it as live.
func (h AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Admin == nil {
		respondError(ctx, w, http.StatusInternalServerError, "admin auth unavailable")
		return
	}
	if !adminAuthorized(r, h.Admin) {
		respondJSON(ctx, w, http.StatusOK, adminSessionResponse{})
		return
	}
	session, _ := h.Admin.Session(ctx)
	respondJSON(ctx, w, http.StatusOK, adminSessionResponse{
		Authenticated:    true,
		ExpiresAt:        int64(session.ExpiresAt),
		RemainingSeconds: seconds(h.Admin.TimeRemaining(ctx)),
	})
}

// requireAdmin rejects requests that do not carry the live admin session token.
func requireAdmin(admin AdminAuth, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if admin == nil {
			respondError(ctx, w, http.StatusInternalServerError, "admin auth unavailable")
			return
		}
		if !adminAuthorized(r, admin) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondError(ctx, w, http.StatusUnauthorized, "admin session required")
			return
		}
		next(w, r)
	}
}

func adminAuthorized(r *http.Request, admin AdminAuth) bool {
	token := bearerToken(r)
	if token == "" {
		return false
	}
	session, ok := admin.Session(r.Context())
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(session.Token)) == 1
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
