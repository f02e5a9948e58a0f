package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ethernet-moe/cafeteria-backend/internal/service"
)

// ReportHandler serves the support reports
type ReportHandler struct {
	service *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// Summary handles GET /api/reports/summary?period=
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err, "build summary report", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, summary, h.logger)
}

// Departments handles GET /api/reports/departments?period=
func (h *ReportHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.Departments(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err, "build department report", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, departments, h.logger)
}

// Categories handles GET /api/reports/categories?period=
func (h *ReportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err, "build category report", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, categories, h.logger)
}
