package billing

import (
	"context"

	"gorm.io/gorm"

	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
)

// Repository handles billing tier persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTier(ctx context.Context, tier *models.BillingTier) error
	UpdateTier(ctx context.Context, tier *models.BillingTier) error
	ListActiveTiers(ctx context.Context) ([]models.BillingTier, error)
	FindTierByID(ctx context.Context, id string) (*models.BillingTier, error)
	FindTierByStripeProductID(ctx context.Context, stripeProductID string) (*models.BillingTier, error)
	FindDefaultTier(ctx context.Context) (*models.BillingTier, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a billing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTier(ctx context.Context, tier *models.BillingTier) error {
	return r.db.WithContext(ctx).Create(tier).Error
}

func (r *repository) UpdateTier(ctx context.Context, tier *models.BillingTier) error {
	return r.db.WithContext(ctx).Save(tier).Error
}

func (r *repository) ListActiveTiers(ctx context.Context) ([]models.BillingTier, error) {
	var tiers []models.BillingTier
	if err := r.db.WithContext(ctx).
		Where("active = true").
		Order("is_default DESC, price_amount ASC, name ASC").
		Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repository) FindTierByID(ctx context.Context, id string) (*models.BillingTier, error) {
	if id == "" {
		return nil, nil
	}
	var tier models.BillingTier
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

func (r *repository) FindTierByStripeProductID(ctx context.Context, stripeProductID string) (*models.BillingTier, error) {
	if stripeProductID == "" {
		return nil, nil
	}
	var tier models.BillingTier
	if err := r.db.WithContext(ctx).
		Where("stripe_product_id = ?", stripeProductID).
		First(&tier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

func (r *repository) FindDefaultTier(ctx context.Context) (*models.BillingTier, error) {
	var tier models.BillingTier
	if err := r.db.WithContext(ctx).
		Where("is_default = true AND active = true").
		Order("updated_at DESC").
		First(&tier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}
