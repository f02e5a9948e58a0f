package handlers

import (
	"net/http"
	"testing"

	"github.com/ethernet-moe/cafeteria-backend/internal/models"
)

func TestUserHandler_Admin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/users", api.admin, models.UserRequest{
		Username: "cashier",
		Email:    "cashier@moe.test",
		FullName: "Front Cashier",
		Password: "password123",
		Role:     "operator",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.User
	decode(t, w, &created)
	if created.Role != models.RoleOperator || !created.Active {
		t.Errorf("created = %+v, want active operator", created)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{name: "duplicate username", method: http.MethodPost, path: "/api/users", body: models.UserRequest{Username: "cashier", Email: "other@moe.test", Password: "password123", Role: "OPERATOR"}, expectedStatus: http.StatusConflict},
		{name: "short password", method: http.MethodPost, path: "/api/users", body: models.UserRequest{Username: "x", Email: "x@moe.test", Password: "short", Role: "OPERATOR"}, expectedStatus: http.StatusBadRequest},
		{name: "bad role", method: http.MethodPost, path: "/api/users", body: models.UserRequest{Username: "y", Email: "y@moe.test", Password: "password123", Role: "OWNER"}, expectedStatus: http.StatusBadRequest},
		{name: "get", method: http.MethodGet, path: "/api/users/" + created.ID, expectedStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, path: "/api/users/missing", expectedStatus: http.StatusNotFound},
		{name: "update keeps password", method: http.MethodPut, path: "/api/users/" + created.ID, body: models.UserRequest{Username: "cashier", Email: "cashier@moe.test", FullName: "Renamed", Role: "MANAGER"}, expectedStatus: http.StatusOK},
		{name: "toggle", method: http.MethodPatch, path: "/api/users/" + created.ID + "/toggle", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, tt.method, tt.path, api.admin, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	// toggled off, so the unchanged password no longer logs in
	w = api.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "cashier", Password: "password123"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("inactive login: expected status 401, got %d", w.Code)
	}

	if w := api.do(t, http.MethodDelete, "/api/users/"+created.ID, api.admin, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: expected status 204, got %d", w.Code)
	}
	if w := api.do(t, http.MethodDelete, "/api/users/"+created.ID, api.admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status 404, got %d", w.Code)
	}
}
