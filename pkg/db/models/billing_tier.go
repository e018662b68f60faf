package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// BillingTier captures the local metadata for a purchasable quota tier.
// Tiers are keyed by the payment provider's product identifier so webhook
// payloads map straight onto a row.
type BillingTier struct {
	ID              string          `gorm:"column:id;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	StripeProductID string          `gorm:"column:stripe_product_id;not null;uniqueIndex"`
	DailyLimit      int             `gorm:"column:daily_limit;not null"`
	MonthlyLimit    int             `gorm:"column:monthly_limit;not null"`
	PriceAmount     decimal.Decimal `gorm:"column:price_amount;type:numeric(12,2);not null"`
	CurrencyCode    string          `gorm:"column:currency_code;not null;default:'usd'"`
	Features        pq.StringArray  `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	IsDefault       bool            `gorm:"column:is_default;not null;default:false"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
