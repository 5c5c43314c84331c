package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/go-store-api/internal/auth"
	"github.com/go-chi/chi/v5"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthHandler struct {
	Auth Authenticator
	Log  *slog.Logger
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/login", h.login)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
			return
		}
		h.Log.Error("login failed", "error", err, "request_id", requestID(r))
		writeError(w, http.StatusInternalServerError, "internal_error", "login failed", nil)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{Token: token})
}
