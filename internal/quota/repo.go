package quota

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
)

// Repository handles the quota counters stored on the accounts table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a quota repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load returns the account row holding the quota counters.
func (r *Repository) Load(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ResetDailyIfStale zeroes the daily counter when its period key no longer
// matches the current one. Returns true if a reset was performed.
func (r *Repository) ResetDailyIfStale(ctx context.Context, accountID uuid.UUID, period string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND last_daily_period <> ?", accountID, period).
		Updates(map[string]any{
			"daily_count":       0,
			"last_daily_period": period,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ResetMonthlyIfStale zeroes the monthly counter when its period key no longer
// matches the current one. Returns true if a reset was performed.
func (r *Repository) ResetMonthlyIfStale(ctx context.Context, accountID uuid.UUID, period string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND last_monthly_period <> ?", accountID, period).
		Updates(map[string]any{
			"monthly_count":       0,
			"last_monthly_period": period,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementIfWithinLimits bumps both counters in one conditional UPDATE.
// The period guards make the increment a no-op when another request already
// rolled the window, and the limit guards close the gap between check and
// commit under concurrency. Returns false when no row qualified.
func (r *Repository) IncrementIfWithinLimits(ctx context.Context, accountID uuid.UUID, dailyPeriod, monthlyPeriod string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where(
			"id = ? AND last_daily_period = ? AND last_monthly_period = ? AND daily_count < daily_limit AND monthly_count < monthly_limit",
			accountID, dailyPeriod, monthlyPeriod,
		).
		Updates(map[string]any{
			"daily_count":   gorm.Expr("daily_count + 1"),
			"monthly_count": gorm.Expr("monthly_count + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
