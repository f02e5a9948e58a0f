package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles operator account administration
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "list users", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, users, h.logger)
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "get user", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, user, h.logger)
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "create user", h.logger)
		return
	}
	WriteJSON(w, http.StatusCreated, user, h.logger)
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "update user", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, user, h.logger)
}

// ToggleStatus handles PATCH /api/users/{id}/toggle
func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "toggle user", h.logger)
		return
	}

	h.logger.Info("user status changed", "username", user.Username, "active", user.Active)
	WriteJSON(w, http.StatusOK, user, h.logger)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete user", h.logger)
		return
	}

	h.logger.Info("user deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
