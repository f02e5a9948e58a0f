package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler handles meal type, category and item requests
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// availabilityRequest is the body of PATCH /api/meal-items/{id}/availability
type availabilityRequest struct {
	TotalAvailable *int `json:"totalAvailable"`
}

// ListActiveMealTypes handles GET /api/meal-types
func (h *CatalogHandler) ListActiveMealTypes(w http.ResponseWriter, r *http.Request) {
	h.listMealTypes(w, r, true)
}

// ListAllMealTypes handles GET /api/meal-types/all
func (h *CatalogHandler) ListAllMealTypes(w http.ResponseWriter, r *http.Request) {
	h.listMealTypes(w, r, false)
}

func (h *CatalogHandler) listMealTypes(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	types, err := h.service.ListMealTypes(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err, "list meal types", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, types, h.logger)
}

// GetMealType handles GET /api/meal-types/{id}
func (h *CatalogHandler) GetMealType(w http.ResponseWriter, r *http.Request) {
	mealType, err := h.service.GetMealType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "get meal type", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, mealType, h.logger)
}

// CreateMealType handles POST /api/meal-types
func (h *CatalogHandler) CreateMealType(w http.ResponseWriter, r *http.Request) {
	var req models.MealTypeRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	mealType, err := h.service.CreateMealType(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "create meal type", h.logger)
		return
	}

	h.logger.Info("meal type created", "id", mealType.ID)
	WriteJSON(w, http.StatusCreated, mealType, h.logger)
}

// UpdateMealType handles PUT /api/meal-types/{id}
func (h *CatalogHandler) UpdateMealType(w http.ResponseWriter, r *http.Request) {
	var req models.MealTypeRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	mealType, err := h.service.UpdateMealType(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "update meal type", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, mealType, h.logger)
}

// ToggleMealType handles PATCH /api/meal-types/{id}/toggle
func (h *CatalogHandler) ToggleMealType(w http.ResponseWriter, r *http.Request) {
	mealType, err := h.service.ToggleMealType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "toggle meal type", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, mealType, h.logger)
}

// DeleteMealType handles DELETE /api/meal-types/{id}
func (h *CatalogHandler) DeleteMealType(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMealType(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "delete meal type", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActiveMealCategories handles GET /api/meal-categories?mealTypeId=
func (h *CatalogHandler) ListActiveMealCategories(w http.ResponseWriter, r *http.Request) {
	h.listMealCategories(w, r, true)
}

// ListAllMealCategories handles GET /api/meal-categories/all?mealTypeId=
func (h *CatalogHandler) ListAllMealCategories(w http.ResponseWriter, r *http.Request) {
	h.listMealCategories(w, r, false)
}

func (h *CatalogHandler) listMealCategories(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	categories, err := h.service.ListMealCategories(r.Context(), r.URL.Query().Get("mealTypeId"), activeOnly)
	if err != nil {
		writeServiceError(w, err, "list meal categories", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, categories, h.logger)
}

// GetMealCategory handles GET /api/meal-categories/{id}
func (h *CatalogHandler) GetMealCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetMealCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "get meal category", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, category, h.logger)
}

// CreateMealCategory handles POST /api/meal-categories
func (h *CatalogHandler) CreateMealCategory(w http.ResponseWriter, r *http.Request) {
	var req models.MealCategoryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	category, err := h.service.CreateMealCategory(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "create meal category", h.logger)
		return
	}

	h.logger.Info("meal category created", "id", category.ID, "mealTypeId", category.MealTypeID)
	WriteJSON(w, http.StatusCreated, category, h.logger)
}

// UpdateMealCategory handles PUT /api/meal-categories/{id}
func (h *CatalogHandler) UpdateMealCategory(w http.ResponseWriter, r *http.Request) {
	var req models.MealCategoryRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	category, err := h.service.UpdateMealCategory(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "update meal category", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, category, h.logger)
}

// ToggleMealCategory handles PATCH /api/meal-categories/{id}/toggle
func (h *CatalogHandler) ToggleMealCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.ToggleMealCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "toggle meal category", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, category, h.logger)
}

// DeleteMealCategory handles DELETE /api/meal-categories/{id}
func (h *CatalogHandler) DeleteMealCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMealCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "delete meal category", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActiveMealItems handles GET /api/meal-items?mealCategoryId=
func (h *CatalogHandler) ListActiveMealItems(w http.ResponseWriter, r *http.Request) {
	h.listMealItems(w, r, true)
}

// ListAllMealItems handles GET /api/meal-items/all?mealCategoryId=
func (h *CatalogHandler) ListAllMealItems(w http.ResponseWriter, r *http.Request) {
	h.listMealItems(w, r, false)
}

func (h *CatalogHandler) listMealItems(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	items, err := h.service.ListMealItems(r.Context(), r.URL.Query().Get("mealCategoryId"), activeOnly)
	if err != nil {
		writeServiceError(w, err, "list meal items", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GetMealItem handles GET /api/meal-items/{id}
func (h *CatalogHandler) GetMealItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetMealItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "get meal item", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, item, h.logger)
}

// CreateMealItem handles POST /api/meal-items
func (h *CatalogHandler) CreateMealItem(w http.ResponseWriter, r *http.Request) {
	var req models.MealItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, err := h.service.CreateMealItem(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "create meal item", h.logger)
		return
	}

	h.logger.Info("meal item created", "id", item.ID, "mealCategoryId", item.MealCategoryID)
	WriteJSON(w, http.StatusCreated, item, h.logger)
}

// UpdateMealItem handles PUT /api/meal-items/{id}
func (h *CatalogHandler) UpdateMealItem(w http.ResponseWriter, r *http.Request) {
	var req models.MealItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	item, err := h.service.UpdateMealItem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "update meal item", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, item, h.logger)
}

// UpdateAvailability handles PATCH /api/meal-items/{id}/availability
func (h *CatalogHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.TotalAvailable == nil {
		WriteError(w, http.StatusBadRequest, "totalAvailable is required", h.logger)
		return
	}

	item, err := h.service.UpdateAvailability(r.Context(), chi.URLParam(r, "id"), *req.TotalAvailable)
	if err != nil {
		writeServiceError(w, err, "update availability", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, item, h.logger)
}

// ToggleMealItem handles PATCH /api/meal-items/{id}/toggle
func (h *CatalogHandler) ToggleMealItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.ToggleMealItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "toggle meal item", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, item, h.logger)
}

// DeleteMealItem handles DELETE /api/meal-items/{id}
func (h *CatalogHandler) DeleteMealItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMealItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "delete meal item", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
