package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	idapp "sneakerspot/internal/service/identity/application"
	userapp "sneakerspot/internal/service/user/application"
	userdomain "sneakerspot/internal/service/user/domain"
)

// IdentityHandler is the identity provider's HTTP surface: logins issue token
// pairs, /verify resolves access tokens for the bffs, /refresh rotates.
type IdentityHandler struct {
	tokens *idapp.TokenService
	users  *userapp.UserService
}

func NewIdentityHandler(tokens *idapp.TokenService, users *userapp.UserService) *IdentityHandler {
	return &IdentityHandler{tokens: tokens, users: users}
}

func (h *IdentityHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.handleLogin(false))
	mux.HandleFunc("POST /admin/login", h.handleLogin(true))
	mux.HandleFunc("POST /verify", h.handleVerify)
	mux.HandleFunc("POST /refresh", h.handleRefresh)
	mux.HandleFunc("POST /logout", h.handleLogout)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin authenticates and issues a pair. The admin variant additionally
// requires the admin role; customers get a 403, not a bad-credentials 401,
// so the admin console can tell the cases apart.
func (h *IdentityHandler) handleLogin(adminOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := extract(r)
		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
		user, err := h.users.Authenticate(ctx, creds.Email, creds.Password)
		if err != nil {
			if errors.Is(err, userdomain.ErrBadCredentials) {
				writeError(w, http.StatusUnauthorized, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if adminOnly && !user.IsAdmin() {
			writeError(w, http.StatusForbidden, errors.New("admin role required"))
			return
		}
		pair, err := h.tokens.IssuePair(ctx, user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

func (h *IdentityHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, errors.New("token is required"))
		return
	}
	identity, err := h.tokens.Verify(ctx, token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, errors.New("invalid or expired token"))
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (h *IdentityHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, errors.New("refresh_token is required"))
		return
	}
	pair, err := h.tokens.Refresh(ctx, payload.RefreshToken, h.users.GetUser)
	if err != nil {
		writeError(w, http.StatusUnauthorized, errors.New("invalid or expired refresh token"))
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *IdentityHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)
	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, errors.New("refresh_token is required"))
		return
	}
	if err := h.tokens.Revoke(ctx, payload.RefreshToken); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func extract(r *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
