package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsglabs/launchcopy-backend/internal/accounts"
	"github.com/hsglabs/launchcopy-backend/pkg/config"
	pkgmodels "github.com/hsglabs/launchcopy-backend/pkg/db/models"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/security"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterRepo struct {
	data      map[string]*pkgmodels.Account
	created   *pkgmodels.Account
	createErr error
}

func newStubRegisterRepo() *stubRegisterRepo {
	return &stubRegisterRepo{data: map[string]*pkgmodels.Account{}}
}

func (s *stubRegisterRepo) FindByEmail(ctx context.Context, email string) (*pkgmodels.Account, error) {
	if account, ok := s.data[email]; ok {
		return account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterRepo) Create(ctx context.Context, dto accounts.CreateAccountDTO) (*pkgmodels.Account, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	account := dto.ToModel()
	account.ID = uuid.New()
	s.data[dto.Email] = account
	s.created = account
	return account, nil
}

func newRegisterTestService(t *testing.T, repo *stubRegisterRepo) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		AccountRepoFactory: func(tx *gorm.DB) registerAccountRepository {
			return repo
		},
		PasswordConfig: config.PasswordConfig{},
		QuotaConfig:    config.QuotaConfig{DefaultDailyLimit: 20, DefaultMonthlyLimit: 200},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc
}

func TestRegisterCreatesAccountWithDefaultQuota(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := newRegisterTestService(t, repo)

	err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New@Example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected account to be created")
	}
	if repo.created.Email != "new@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created.Email)
	}
	if repo.created.DailyLimit != 20 || repo.created.MonthlyLimit != 200 {
		t.Fatalf("unexpected quota limits %d/%d", repo.created.DailyLimit, repo.created.MonthlyLimit)
	}
	ok, err := security.VerifyPassword("Secret123!", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := newRegisterTestService(t, repo)

	req := RegisterRequest{Email: "dup@example.com", Password: "Secret123!"}
	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	err := svc.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := newRegisterTestService(t, repo)

	err := svc.Register(context.Background(), RegisterRequest{
		Email:    "short@example.com",
		Password: "short",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("no account should be created for invalid input")
	}
}
