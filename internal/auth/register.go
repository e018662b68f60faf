package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hsglabs/launchcopy-backend/internal/accounts"
	"github.com/hsglabs/launchcopy-backend/pkg/config"
	"github.com/hsglabs/launchcopy-backend/pkg/db"
	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/security"
)

const minPasswordLength = 8

// RegisterRequest contains the payload required for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterService handles the account creation transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, dto accounts.CreateAccountDTO) (*models.Account, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner           txRunner
	AccountRepoFactory func(tx *gorm.DB) registerAccountRepository
	PasswordConfig     config.PasswordConfig
	QuotaConfig        config.QuotaConfig
}

type registerService struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) registerAccountRepository
	passwordCfg config.PasswordConfig
	quotaCfg    config.QuotaConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.AccountRepoFactory == nil {
		params.AccountRepoFactory = func(tx *gorm.DB) registerAccountRepository {
			return accounts.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		repoFactory: params.AccountRepoFactory,
		passwordCfg: params.PasswordConfig,
		quotaCfg:    params.QuotaConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check account email")
		}

		if _, err := repo.Create(ctx, accounts.CreateAccountDTO{
			Email:        email,
			PasswordHash: passwordHash,
			DailyLimit:   s.quotaCfg.DefaultDailyLimit,
			MonthlyLimit: s.quotaCfg.DefaultMonthlyLimit,
		}); err != nil {
			if db.IsUniqueViolation(err, "accounts_email_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
		}

		return nil
	})
}
