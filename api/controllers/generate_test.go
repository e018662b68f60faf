package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hsglabs/launchcopy-backend/api/middleware"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
)

type stubGenerationService struct {
	text     string
	err      error
	account  uuid.UUID
	features string
}

func (s *stubGenerationService) Generate(ctx context.Context, accountID uuid.UUID, features string) (string, error) {
	s.account = accountID
	s.features = features
	return s.text, s.err
}

func TestGenerateSuccess(t *testing.T) {
	svc := &stubGenerationService{text: "# Ship faster\n\nYour landing page copy."}
	handler := Generate(svc, nil)

	accountID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader([]byte(`{"features":"AI-powered invoicing for freelancers"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithAccountID(req.Context(), accountID.String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.account != accountID {
		t.Fatalf("expected account %s got %s", accountID, svc.account)
	}
	if svc.features != "AI-powered invoicing for freelancers" {
		t.Fatalf("unexpected features %q", svc.features)
	}

	var body struct {
		GeneratedText string `json:"generatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.GeneratedText != svc.text {
		t.Fatalf("unexpected text %q", body.GeneratedText)
	}
}

func TestGenerateWithoutIdentity(t *testing.T) {
	svc := &stubGenerationService{text: "copy"}
	handler := Generate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader([]byte(`{"features":"something"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestGenerateMissingFeatures(t *testing.T) {
	svc := &stubGenerationService{text: "copy"}
	handler := Generate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithAccountID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.features != "" {
		t.Fatal("invalid payload should not reach the service")
	}
}

func TestGenerateQuotaExceeded(t *testing.T) {
	svc := &stubGenerationService{err: pkgerrors.New(pkgerrors.CodeRateLimit, "daily limit reached")}
	handler := Generate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader([]byte(`{"features":"something"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithAccountID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "daily limit reached" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	svc := &stubGenerationService{err: pkgerrors.Wrap(pkgerrors.CodeUpstream, context.DeadlineExceeded, "generate text")}
	handler := Generate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader([]byte(`{"features":"something"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithAccountID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Message != "text generation failed" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
