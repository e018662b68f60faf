package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
)

// Period key layouts. The daily key includes the year so a counter left over
// from the same calendar day of an earlier year can never be mistaken for
// today's window.
const (
	dailyPeriodLayout   = "2006-002"
	monthlyPeriodLayout = "2006-01"
)

// DailyPeriodKey returns the fixed-window key for the day containing now (UTC).
func DailyPeriodKey(now time.Time) string {
	return now.UTC().Format(dailyPeriodLayout)
}

// MonthlyPeriodKey returns the fixed-window key for the month containing now (UTC).
func MonthlyPeriodKey(now time.Time) string {
	return now.UTC().Format(monthlyPeriodLayout)
}

// Status reports current usage against the account's limits.
type Status struct {
	DailyUsed    int `json:"daily_used"`
	DailyLimit   int `json:"daily_limit"`
	MonthlyUsed  int `json:"monthly_used"`
	MonthlyLimit int `json:"monthly_limit"`
}

type repository interface {
	Load(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	ResetDailyIfStale(ctx context.Context, accountID uuid.UUID, period string) (bool, error)
	ResetMonthlyIfStale(ctx context.Context, accountID uuid.UUID, period string) (bool, error)
	IncrementIfWithinLimits(ctx context.Context, accountID uuid.UUID, dailyPeriod, monthlyPeriod string) (bool, error)
}

// Service enforces per-account generation quotas with lazy window resets.
type Service struct {
	repo repository
	now  func() time.Time
}

// ServiceParams bundles the quota service dependencies.
type ServiceParams struct {
	Repo repository
	Now  func() time.Time
}

// NewService constructs the quota service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("quota repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, now: now}, nil
}

// Authorize reports whether the account may start a generation right now.
// It performs lazy resets for rolled-over windows first, then compares
// counters against limits. A denied account gets a CodeRateLimit error naming
// the exhausted window.
func (s *Service) Authorize(ctx context.Context, accountID uuid.UUID) error {
	now := s.now()
	if err := s.rollWindows(ctx, accountID, now); err != nil {
		return err
	}

	account, err := s.repo.Load(ctx, accountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quota")
	}

	if account.DailyCount >= account.DailyLimit {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "daily limit reached")
	}
	if account.MonthlyCount >= account.MonthlyLimit {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "monthly limit reached")
	}
	return nil
}

// Commit consumes one generation from both windows. The increment happens in
// a single conditional UPDATE, so two racing requests can never both slip past
// an exhausted limit: the second one matches no row and is denied.
func (s *Service) Commit(ctx context.Context, accountID uuid.UUID) error {
	now := s.now()
	if err := s.rollWindows(ctx, accountID, now); err != nil {
		return err
	}

	committed, err := s.repo.IncrementIfWithinLimits(ctx, accountID, DailyPeriodKey(now), MonthlyPeriodKey(now))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "commit quota usage")
	}
	if !committed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "generation limit reached")
	}
	return nil
}

// Current returns usage and limits after rolling stale windows.
func (s *Service) Current(ctx context.Context, accountID uuid.UUID) (*Status, error) {
	now := s.now()
	if err := s.rollWindows(ctx, accountID, now); err != nil {
		return nil, err
	}

	account, err := s.repo.Load(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quota")
	}

	return &Status{
		DailyUsed:    account.DailyCount,
		DailyLimit:   account.DailyLimit,
		MonthlyUsed:  account.MonthlyCount,
		MonthlyLimit: account.MonthlyLimit,
	}, nil
}

func (s *Service) rollWindows(ctx context.Context, accountID uuid.UUID, now time.Time) error {
	if _, err := s.repo.ResetDailyIfStale(ctx, accountID, DailyPeriodKey(now)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "roll daily window")
	}
	if _, err := s.repo.ResetMonthlyIfStale(ctx, accountID, MonthlyPeriodKey(now)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "roll monthly window")
	}
	return nil
}
