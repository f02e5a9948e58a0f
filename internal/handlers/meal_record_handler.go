package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethernet-moe/cafeteria-backend/internal/middleware"
	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

// MealRecordHandler handles meal redemption requests
type MealRecordHandler struct {
	service *service.MealRecordService
	logger  *slog.Logger
	now     func() time.Time
}

// NewMealRecordHandler creates a new meal record handler
func NewMealRecordHandler(service *service.MealRecordService, logger *slog.Logger) *MealRecordHandler {
	return &MealRecordHandler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// DuplicateCheckResponse answers GET /api/meal-records/check-duplicate
type DuplicateCheckResponse struct {
	HasUsedToday bool   `json:"hasUsedToday"`
	CardID       string `json:"cardId"`
	MealTypeID   string `json:"mealTypeId"`
	Date         string `json:"date"`
}

// Record handles POST /api/meal-records/record
// The kiosk endpoint is public. Every rejection is reported as 400 so the
// kiosk can show the message; server faults remain 500.
func (h *MealRecordHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.RecordMealRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	record, err := h.service.RecordMeal(r.Context(), req, middleware.UserID(r.Context()))
	if err != nil {
		status := statusFor(err)
		if status != http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		writeServiceErrorStatus(w, status, err, "record meal", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, record, h.logger)
}

// CheckDuplicate handles GET /api/meal-records/check-duplicate?cardId=&mealTypeId=
func (h *MealRecordHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cardID := query.Get("cardId")
	mealTypeID := query.Get("mealTypeId")
	if cardID == "" || mealTypeID == "" {
		WriteError(w, http.StatusBadRequest, "cardId and mealTypeId are required", h.logger)
		return
	}

	used, err := h.service.HasRedeemedToday(r.Context(), cardID, mealTypeID)
	if err != nil {
		writeServiceError(w, err, "check duplicate redemption", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, DuplicateCheckResponse{
		HasUsedToday: used,
		CardID:       cardID,
		MealTypeID:   mealTypeID,
		Date:         h.now().Format(models.RedemptionDateLayout),
	}, h.logger)
}

// List handles GET /api/meal-records
func (h *MealRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "list meal records", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, records, h.logger)
}

// ListBetween handles GET /api/meal-records/date-range?start=&end=
func (h *MealRecordHandler) ListBetween(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	records, err := h.service.ListBetween(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err, "list meal records by date", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, records, h.logger)
}

// ListByDepartmentBetween handles GET /api/meal-records/department/{department}/date-range?start=&end=
func (h *MealRecordHandler) ListByDepartmentBetween(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	records, err := h.service.ListByDepartmentBetween(r.Context(), chi.URLParam(r, "department"), start, end)
	if err != nil {
		writeServiceError(w, err, "list department meal records", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, records, h.logger)
}

// ListByEmployee handles GET /api/meal-records/employee/{employeeId}
// and GET /api/employees/{employeeId}/meal-records
func (h *MealRecordHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		writeServiceError(w, err, "list employee meal records", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, records, h.logger)
}

// Get handles GET /api/meal-records/{id}
func (h *MealRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "get meal record", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, record, h.logger)
}

// Receipt handles GET /api/meal-records/{id}/receipt
func (h *MealRecordHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.Receipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "render receipt", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		h.logger.Error("failed to write receipt", "error", err)
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// dateRange reads the start and end query parameters. Bare dates cover the
// whole day; times without an offset are local.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()
	start, err := parseTime(query.Get("start"), false)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseTime(query.Get("end"), true)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
	}
	return start, end, nil
}

func parseTime(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("value is required")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	day, err := time.ParseInLocation(models.RedemptionDateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q", value)
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}
