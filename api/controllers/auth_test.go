package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hsglabs/launchcopy-backend/internal/auth"
	pkgAuth "github.com/hsglabs/launchcopy-backend/pkg/auth"
	"github.com/hsglabs/launchcopy-backend/pkg/auth/session"
	"github.com/hsglabs/launchcopy-backend/pkg/config"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

type stubRevoker struct {
	revoked []string
	err     error
}

func (s *stubRevoker) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return s.err
}

func TestLoginSuccess(t *testing.T) {
	handler := Login(stubAuthService{resp: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":"owner@example.com","password":"Secret#123"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body struct {
		Status       string `json:"status"`
		Message      string `json:"message"`
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" || body.Message != "logged in" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.Token != "access-token" || body.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected tokens %+v", body)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	handler := Login(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":"owner@example.com","password":"wrong-pass"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestLoginInvalidPayload(t *testing.T) {
	handler := Login(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":"owner@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	accessID := session.NewAccessID()
	token := mintControllerToken(t, cfg, accessID, time.Now())

	revoker := &stubRevoker{}
	handler := Logout(revoker, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != accessID {
		t.Fatalf("expected session %s revoked, got %v", accessID, revoker.revoked)
	}
}

func TestLogoutAcceptsExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 1}
	accessID := session.NewAccessID()
	token := mintControllerToken(t, cfg, accessID, time.Now().Add(-time.Hour))

	revoker := &stubRevoker{}
	handler := Logout(revoker, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(revoker.revoked) != 1 {
		t.Fatalf("expected expired session still revoked, got %v", revoker.revoked)
	}
}

func TestLogoutMissingToken(t *testing.T) {
	handler := Logout(&stubRevoker{}, config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 1}, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func mintControllerToken(t *testing.T, cfg config.JWTConfig, accessID string, issuedAt time.Time) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, issuedAt, pkgAuth.AccessTokenPayload{
		AccountID: uuid.New(),
		Email:     "owner@example.com",
		JTI:       accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
