package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// EmployeeHandler handles employee HTTP requests
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *slog.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(service *service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/employees
// Active employees only unless includeInactive=true; department narrows to one department.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		employees []models.Employee
		err       error
	)
	if department := query.Get("department"); department != "" {
		employees, err = h.service.ListByDepartment(ctx, department)
	} else {
		includeInactive, _ := strconv.ParseBool(query.Get("includeInactive"))
		employees, err = h.service.List(ctx, !includeInactive)
	}
	if err != nil {
		writeServiceError(w, err, "list employees", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, employees, h.logger)
}

// ListEligible handles GET /api/employees/support-eligible
func (h *EmployeeHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.ListEligible(r.Context())
	if err != nil {
		writeServiceError(w, err, "list eligible employees", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, employees, h.logger)
}

// Get handles GET /api/employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "get employee", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, employee, h.logger)
}

// GetByEmployeeID handles GET /api/employees/by-employee-id/{employeeId}
func (h *EmployeeHandler) GetByEmployeeID(w http.ResponseWriter, r *http.Request) {
	employee, err := h.service.GetByEmployeeID(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		writeServiceError(w, err, "get employee", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, employee, h.logger)
}

// GetByCard handles GET /api/employees/card/{cardId}
// The kiosk uses it to show who is about to redeem, so the key may also be a short code.
func (h *EmployeeHandler) GetByCard(w http.ResponseWriter, r *http.Request) {
	employee, err := h.service.GetByCard(r.Context(), chi.URLParam(r, "cardId"))
	if err != nil {
		writeServiceError(w, err, "get employee by card", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, employee, h.logger)
}

// UsageStats handles GET /api/employees/{employeeId}/usage-stats
func (h *EmployeeHandler) UsageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.UsageStats(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		writeServiceError(w, err, "load usage stats", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, stats, h.logger)
}

// Create handles POST /api/employees
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EmployeeRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	employee, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "create employee", h.logger)
		return
	}

	h.logger.Info("employee created", "id", employee.ID, "employeeId", employee.EmployeeID)
	WriteJSON(w, http.StatusCreated, employee, h.logger)
}

// Update handles PUT /api/employees/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.EmployeeRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	employee, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, "update employee", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, employee, h.logger)
}

// ToggleStatus handles PATCH /api/employees/{id}/toggle
func (h *EmployeeHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	employee, err := h.service.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "toggle employee", h.logger)
		return
	}

	h.logger.Info("employee status changed", "id", employee.ID, "active", employee.Active)
	WriteJSON(w, http.StatusOK, employee, h.logger)
}

// Delete handles DELETE /api/employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete employee", h.logger)
		return
	}

	h.logger.Info("employee deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
