package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/shopspring/decimal"
)

// SupportConfigHandler reads and replaces the support salary threshold
type SupportConfigHandler struct {
	service *service.SupportConfigService
	logger  *slog.Logger
}

// NewSupportConfigHandler creates a new support config handler
func NewSupportConfigHandler(service *service.SupportConfigService, logger *slog.Logger) *SupportConfigHandler {
	return &SupportConfigHandler{
		service: service,
		logger:  logger,
	}
}

type supportConfigRequest struct {
	MaxSalaryForSupport *decimal.Decimal `json:"maxSalaryForSupport"`
}

// Get handles GET /api/support-config
func (h *SupportConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Active(r.Context())
	if err != nil {
		writeServiceError(w, err, "get support config", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, cfg, h.logger)
}

// Create handles POST /api/support-config
func (h *SupportConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req supportConfigRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	h.activate(w, r, req.MaxSalaryForSupport)
}

// SetMaxSalary handles PUT /api/support-config/max-salary?maxSalary=
func (h *SupportConfigHandler) SetMaxSalary(w http.ResponseWriter, r *http.Request) {
	var maxSalary *decimal.Decimal
	if raw := r.URL.Query().Get("maxSalary"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "maxSalary must be a number", h.logger)
			return
		}
		maxSalary = &d
	}
	h.activate(w, r, maxSalary)
}

func (h *SupportConfigHandler) activate(w http.ResponseWriter, r *http.Request, maxSalary *decimal.Decimal) {
	cfg, err := h.service.SetMaxSalary(r.Context(), maxSalary)
	if err != nil {
		writeServiceError(w, err, "update support config", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, cfg, h.logger)
}
