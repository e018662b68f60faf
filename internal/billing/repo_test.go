package billing

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hsglabs/launchcopy-backend/pkg/db/models"
)

const billingTiersTableDDL = `CREATE TABLE billing_tiers (
	id text PRIMARY KEY,
	name text NOT NULL,
	stripe_product_id text NOT NULL,
	daily_limit integer NOT NULL,
	monthly_limit integer NOT NULL,
	price_amount numeric NOT NULL DEFAULT 0,
	currency_code text NOT NULL DEFAULT 'usd',
	features text,
	is_default boolean NOT NULL DEFAULT false,
	active boolean NOT NULL DEFAULT true,
	created_at datetime,
	updated_at datetime
)`

func newBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := conn.Exec(billingTiersTableDDL).Error; err != nil {
		t.Fatalf("create billing_tiers table: %v", err)
	}
	return conn
}

func seedTiers(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	tiers := []*models.BillingTier{
		{ID: "free", Name: "Free", StripeProductID: "prod_free", DailyLimit: 20, MonthlyLimit: 200, IsDefault: true, Active: true},
		{ID: "starter", Name: "Starter", StripeProductID: "prod_starter", DailyLimit: 100, MonthlyLimit: 1500, Active: true},
		{ID: "legacy", Name: "Legacy", StripeProductID: "prod_legacy", DailyLimit: 50, MonthlyLimit: 500, Active: false},
	}
	for _, tier := range tiers {
		if err := repo.CreateTier(ctx, tier); err != nil {
			t.Fatalf("seed tier %s: %v", tier.ID, err)
		}
	}
}

func TestFindTierByStripeProductID(t *testing.T) {
	repo := NewRepository(newBillingTestDB(t))
	seedTiers(t, repo)
	ctx := context.Background()

	tier, err := repo.FindTierByStripeProductID(ctx, "prod_starter")
	if err != nil {
		t.Fatalf("find tier: %v", err)
	}
	if tier == nil || tier.ID != "starter" || tier.DailyLimit != 100 {
		t.Fatalf("unexpected tier %+v", tier)
	}

	tier, err = repo.FindTierByStripeProductID(ctx, "prod_unknown")
	if err != nil {
		t.Fatalf("find unknown tier: %v", err)
	}
	if tier != nil {
		t.Fatalf("unknown product must yield nil, got %+v", tier)
	}

	tier, err = repo.FindTierByStripeProductID(ctx, "")
	if err != nil || tier != nil {
		t.Fatalf("empty product id must yield nil, got %+v %v", tier, err)
	}
}

func TestFindDefaultTier(t *testing.T) {
	repo := NewRepository(newBillingTestDB(t))
	seedTiers(t, repo)

	tier, err := repo.FindDefaultTier(context.Background())
	if err != nil {
		t.Fatalf("find default: %v", err)
	}
	if tier == nil || tier.ID != "free" {
		t.Fatalf("unexpected default tier %+v", tier)
	}
}

func TestListActiveTiersExcludesInactive(t *testing.T) {
	repo := NewRepository(newBillingTestDB(t))
	seedTiers(t, repo)

	tiers, err := repo.ListActiveTiers(context.Background())
	if err != nil {
		t.Fatalf("list tiers: %v", err)
	}
	if len(tiers) != 2 {
		t.Fatalf("expected 2 active tiers, got %d", len(tiers))
	}
	for _, tier := range tiers {
		if tier.ID == "legacy" {
			t.Fatal("inactive tier must not be listed")
		}
	}
}
