package handlers

import (
	"net/http"
	"testing"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
	"github.com/ethernet-moe/cafeteria-backend/internal/report"
	"github.com/shopspring/decimal"
)

func TestEmployeeHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)

	card := "CARD100"
	salary := decimal.RequireFromString("3500.50")
	w := api.do(t, http.MethodPost, "/api/employees", api.manager, models.EmployeeRequest{
		EmployeeID: "EMP100",
		CardID:     &card,
		Name:       "Abebe Kebede",
		Department: "IT",
		Salary:     &salary,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.Employee
	decode(t, w, &created)
	if !created.Active {
		t.Error("new employee is not active")
	}

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{name: "get by id", method: http.MethodGet, path: "/api/employees/" + created.ID, expectedStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/api/employees/missing", expectedStatus: http.StatusNotFound},
		{name: "get by employee id", method: http.MethodGet, path: "/api/employees/by-employee-id/EMP100", expectedStatus: http.StatusOK},
		{name: "duplicate employee id", method: http.MethodPost, path: "/api/employees", body: models.EmployeeRequest{EmployeeID: "EMP100", Name: "Other", Department: "IT"}, expectedStatus: http.StatusConflict},
		{name: "duplicate card", method: http.MethodPost, path: "/api/employees", body: models.EmployeeRequest{EmployeeID: "EMP101", CardID: &card, Name: "Other", Department: "IT"}, expectedStatus: http.StatusConflict},
		{name: "missing name", method: http.MethodPost, path: "/api/employees", body: models.EmployeeRequest{EmployeeID: "EMP102", Department: "IT"}, expectedStatus: http.StatusBadRequest},
		{name: "malformed body", method: http.MethodPost, path: "/api/employees", body: "not an object", expectedStatus: http.StatusBadRequest},
		{name: "update", method: http.MethodPut, path: "/api/employees/" + created.ID, body: models.EmployeeRequest{EmployeeID: "EMP100", CardID: &card, Name: "Abebe K.", Department: "Finance", Salary: &salary}, expectedStatus: http.StatusOK},
		{name: "usage stats", method: http.MethodGet, path: "/api/employees/EMP100/usage-stats", expectedStatus: http.StatusOK},
		{name: "usage stats unknown", method: http.MethodGet, path: "/api/employees/NOPE/usage-stats", expectedStatus: http.StatusNotFound},
		{name: "public card lookup", method: http.MethodGet, path: "/api/employees/card/CARD100", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := api.manager
			if tt.name == "public card lookup" {
				token = ""
			}
			w := api.do(t, tt.method, tt.path, token, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	// toggling hides the employee from the card lookup and the default list
	w = api.do(t, http.MethodPatch, "/api/employees/"+created.ID+"/toggle", api.manager, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: %d %s", w.Code, w.Body.String())
	}
	if w := api.do(t, http.MethodGet, "/api/employees/card/CARD100", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("inactive card lookup: expected status 404, got %d", w.Code)
	}

	var list []models.Employee
	decode(t, api.do(t, http.MethodGet, "/api/employees", api.operator, nil), &list)
	if len(list) != 0 {
		t.Errorf("active list has %d employees, want 0", len(list))
	}
	decode(t, api.do(t, http.MethodGet, "/api/employees?includeInactive=true", api.operator, nil), &list)
	if len(list) != 1 {
		t.Errorf("full list has %d employees, want 1", len(list))
	}

	if w := api.do(t, http.MethodDelete, "/api/employees/"+created.ID, api.manager, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected status 204, got %d", w.Code)
	}
	if w := api.do(t, http.MethodDelete, "/api/employees/"+created.ID, api.manager, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status 404, got %d", w.Code)
	}
}

func TestEmployeeHandler_EligibilityAndUsage(t *testing.T) {
	api := newTestAPI(t)
	category, _ := seedLunch(t, api)

	var eligible []models.Employee
	w := api.do(t, http.MethodGet, "/api/employees/support-eligible", api.operator, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("eligible: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &eligible)
	if len(eligible) != 1 || eligible[0].EmployeeID != "EMP001" {
		t.Errorf("eligible = %+v, want only EMP001", eligible)
	}

	if w := api.do(t, http.MethodPost, "/api/meal-records/record", "", models.RecordMealRequest{CardID: "CARD001", MealCategoryID: category.ID}); w.Code != http.StatusOK {
		t.Fatalf("record: %d %s", w.Code, w.Body.String())
	}

	var stats report.UsageStats
	w = api.do(t, http.MethodGet, "/api/employees/EMP001/usage-stats", api.operator, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("usage stats: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &stats)
	if stats.TotalMeals != 1 || stats.SupportedMeals != 1 {
		t.Errorf("stats = %+v, want 1 supported meal", stats)
	}
	if !stats.TotalSavings.Equal(decimal.NewFromInt(10)) {
		t.Errorf("savings = %s, want 10", stats.TotalSavings)
	}

	// an employee with records cannot be deleted
	var emp models.Employee
	decode(t, api.do(t, http.MethodGet, "/api/employees/by-employee-id/EMP001", api.operator, nil), &emp)
	if w := api.do(t, http.MethodDelete, "/api/employees/"+emp.ID, api.manager, nil); w.Code != http.StatusConflict {
		t.Errorf("delete with records: expected status 409, got %d", w.Code)
	}
}
