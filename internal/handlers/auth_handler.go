package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ethernet-moe/cafeteria-backend/internal/middleware"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
)

// AuthHandler handles login and session lookups
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "log in", h.logger)
		return
	}

	h.logger.Info("user logged in", "username", resp.User.Username, "role", resp.User.Role)
	WriteJSON(w, http.StatusOK, resp, h.logger)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "authentication required", h.logger)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims)
	if err != nil {
		writeServiceError(w, err, "load current user", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, user, h.logger)
}
