package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents the canonical identity entity along with its
// generation quota counters. Period columns hold the key of the window
// the counters belong to (daily "2006-002", monthly "2006-01"); counters
// with a stale period are treated as zero until the next commit resets
// them.
type Account struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt      *time.Time `gorm:"column:last_login_at"`
	StripeCustomerID *string    `gorm:"column:stripe_customer_id;uniqueIndex"`
	PlanTierID       *string    `gorm:"column:plan_tier_id"`

	DailyCount        int    `gorm:"column:daily_count;not null;default:0"`
	DailyLimit        int    `gorm:"column:daily_limit;not null"`
	LastDailyPeriod   string `gorm:"column:last_daily_period;not null;default:''"`
	MonthlyCount      int    `gorm:"column:monthly_count;not null;default:0"`
	MonthlyLimit      int    `gorm:"column:monthly_limit;not null"`
	LastMonthlyPeriod string `gorm:"column:last_monthly_period;not null;default:''"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
