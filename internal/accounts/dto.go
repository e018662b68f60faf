package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
)

// AccountDTO is the transport shape that omits sensitive credentials.
type AccountDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	PlanTierID  *string    `json:"plan_tier_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateAccountDTO holds the data required by the repo to persist a new account.
type CreateAccountDTO struct {
	Email        string
	PasswordHash string
	DailyLimit   int
	MonthlyLimit int
	IsActive     *bool
}

func FromModel(a *models.Account) *AccountDTO {
	if a == nil {
		return nil
	}

	return &AccountDTO{
		ID:          a.ID,
		Email:       a.Email,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		PlanTierID:  a.PlanTierID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (c CreateAccountDTO) ToModel() *models.Account {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.Account{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		IsActive:     isActive,
		DailyLimit:   c.DailyLimit,
		MonthlyLimit: c.MonthlyLimit,
	}
}
