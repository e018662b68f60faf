package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/hsglabs/launchcopy-backend/pkg/auth"
	"github.com/hsglabs/launchcopy-backend/pkg/config"
	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/security"
)

func TestServiceLoginIssuesTokens(t *testing.T) {
	password := "correct-horse-battery"
	account := &models.Account{
		ID:           uuid.New(),
		Email:        "founder@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "launchcopy",
		ExpirationMinutes: 30,
	}

	svc, err := buildTestService(account, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    account.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.AccountID != account.ID {
		t.Fatalf("expected account id claim %s, got %s", account.ID, claims.AccountID)
	}
	if claims.Email != account.Email {
		t.Fatalf("expected email claim %q, got %q", account.Email, claims.Email)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if account.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
	if resp.Account == nil || resp.Account.Email != account.Email {
		t.Fatalf("expected account dto in response")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	account := &models.Account{
		ID:           uuid.New(),
		Email:        "founder@example.com",
		PasswordHash: mustHashPassword(t, "real-password"),
		IsActive:     true,
	}
	svc, err := buildTestService(account, config.JWTConfig{
		Secret:            "secret",
		Issuer:            "launchcopy",
		ExpirationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    account.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginInactiveAccount(t *testing.T) {
	password := "some-password"
	account := &models.Account{
		ID:           uuid.New(),
		Email:        "disabled@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}
	svc, err := buildTestService(account, config.JWTConfig{
		Secret:            "secret",
		Issuer:            "launchcopy",
		ExpirationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    account.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for inactive account, got %v", err)
	}
}

func buildTestService(account *models.Account, jwtCfg config.JWTConfig) (Service, error) {
	return NewService(ServiceParams{
		AccountRepo:    stubAccountRepo{account: account},
		SessionManager: &stubSessionManager{refreshToken: "refresh-token"},
		JWTConfig:      jwtCfg,
	})
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubAccountRepo struct {
	account *models.Account
	err     error
}

func (s stubAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func (s stubAccountRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.account != nil && s.account.ID == id {
		s.account.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}
