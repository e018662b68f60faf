package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hsglabs/launchcopy-backend/api/middleware"
)

func TestStatusEchoesIdentity(t *testing.T) {
	handler := Status(nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req = req.WithContext(middleware.WithEmail(req.Context(), "owner@example.com"))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body struct {
		Status string `json:"status"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.Email != "owner@example.com" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestStatusWithoutIdentity(t *testing.T) {
	handler := Status(nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
