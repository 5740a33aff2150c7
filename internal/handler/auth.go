package handler

import (
	"log/slog"
	"net/http"

	"github.com/ethiogpt/toolsgate/internal/auth"
	"github.com/ethiogpt/toolsgate/internal/handler/dto"
	"github.com/ethiogpt/toolsgate/internal/service"
)

// AuthHandler handles registration, login and the caller profile.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger.With("component", "handler.auth"),
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Login handles POST /api/login. Unknown usernames are registered on the fly.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsInput
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me handles GET /api/me. Requires the Auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.AuthFromContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	user, err := h.svc.Me(r.Context(), authCtx.UserID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MeResponse{User: user.ToProfile()})
}
