package service

import (
	"errors"
	"testing"
	"time"

	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "product_service_test")
	productRepo := repository.NewProductRepository(db)
	specialRepo := repository.NewSpecialPriceRepository(db)
	return NewProductService(productRepo, specialRepo), db
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	cases := []struct {
		name    string
		input   ProductInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   ProductInput{Name: "  ", BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(2))},
			wantErr: ErrProductInvalid,
		},
		{
			name:    "zero base price",
			input:   ProductInput{Name: "Water", BasePrice: models.NewMoneyFromDecimal(decimal.Zero)},
			wantErr: ErrProductInvalid,
		},
		{
			name: "discount over 100",
			input: ProductInput{
				Name:            "Water",
				BasePrice:       models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
				DiscountPercent: decimal.NewFromInt(101),
			},
			wantErr: ErrProductInvalid,
		},
		{
			name: "tier quantity below 2",
			input: ProductInput{
				Name:      "Water",
				BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
				Tiers:     []PackTierInput{{Quantity: 1, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(2))}},
			},
			wantErr: ErrProductTierInvalid,
		},
		{
			name: "duplicate tier quantity",
			input: ProductInput{
				Name:      "Water",
				BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
				Tiers: []PackTierInput{
					{Quantity: 6, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(10))},
					{Quantity: 6, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(9))},
				},
			},
			wantErr: ErrProductTierInvalid,
		},
	}
	for _, tc := range cases {
		if _, err := svc.CreateProduct(testTenantID, tc.input); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestCreateProductWithTiers(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(testTenantID, ProductInput{
		Name:      "Mineral Water",
		BasePrice: models.NewMoneyFromDecimal(decimal.RequireFromString("1.50")),
		Tiers: []PackTierInput{
			{Quantity: 6, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("8.00"))},
			{Quantity: 12, TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("15.00"))},
		},
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !product.IsActive {
		t.Errorf("expected product active by default")
	}

	got, err := svc.GetProduct(testTenantID, product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if len(got.Tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(got.Tiers))
	}
}

func TestUpdateProductReplacesTiers(t *testing.T) {
	svc, _ := setupProductServiceTest(t)

	product, err := svc.CreateProduct(testTenantID, ProductInput{
		Name:      "Cola",
		BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(3)),
		Tiers: []PackTierInput{
			{Quantity: 6, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(16))},
		},
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	updated, err := svc.UpdateProduct(testTenantID, product.ID, ProductInput{
		Name:      "Cola 2L",
		BasePrice: models.NewMoneyFromDecimal(decimal.RequireFromString("3.20")),
		Tiers: []PackTierInput{
			{Quantity: 12, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(30))},
			{Quantity: 24, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(55))},
		},
	})
	if err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if updated.Name != "Cola 2L" {
		t.Errorf("expected renamed product, got %q", updated.Name)
	}
	if len(updated.Tiers) != 2 {
		t.Fatalf("expected old tiers replaced by 2 new tiers, got %d", len(updated.Tiers))
	}
	for _, tier := range updated.Tiers {
		if tier.Quantity == 6 {
			t.Errorf("old tier survived the replacement")
		}
	}

	if _, err := svc.UpdateProduct(testTenantID, 9999, ProductInput{
		Name:      "Ghost",
		BasePrice: models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
	}); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound for unknown product, got %v", err)
	}
}

func TestNormalizeDiscountLapsesExpired(t *testing.T) {
	svc, db := setupProductServiceTest(t)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	expired := &models.Product{
		TenantID:          testTenantID,
		Name:              "Lager Beer",
		BasePrice:         models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
		DiscountPercent:   decimal.NewFromInt(10),
		DiscountExpiresAt: &past,
		IsActive:          true,
	}
	if err := db.Create(expired).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	if err := svc.NormalizeDiscount(db, expired, time.Now()); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if !expired.DiscountPercent.IsZero() || expired.DiscountExpiresAt != nil {
		t.Errorf("expected in-memory discount cleared, got %s", expired.DiscountPercent)
	}
	var reloaded models.Product
	if err := db.First(&reloaded, expired.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if !reloaded.DiscountPercent.IsZero() {
		t.Errorf("expected persisted discount cleared, got %s", reloaded.DiscountPercent)
	}

	indefinite := &models.Product{
		TenantID:           testTenantID,
		Name:               "House Blend",
		BasePrice:          models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		DiscountPercent:    decimal.NewFromInt(5),
		DiscountIndefinite: true,
		DiscountExpiresAt:  &past,
		IsActive:           true,
	}
	if err := db.Create(indefinite).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := svc.NormalizeDiscount(db, indefinite, time.Now()); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if indefinite.DiscountPercent.IsZero() {
		t.Errorf("indefinite discount must not lapse")
	}

	running := &models.Product{
		TenantID:          testTenantID,
		Name:              "Juice",
		BasePrice:         models.NewMoneyFromDecimal(decimal.NewFromInt(4)),
		DiscountPercent:   decimal.NewFromInt(8),
		DiscountExpiresAt: &future,
		IsActive:          true,
	}
	if err := db.Create(running).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := svc.NormalizeDiscount(db, running, time.Now()); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if running.DiscountPercent.IsZero() {
		t.Errorf("unexpired discount must not lapse")
	}
}

func TestSetSpecialPriceUpsert(t *testing.T) {
	svc, db := setupProductServiceTest(t)

	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Mineral Water", "1.50", nil)

	first, err := svc.SetSpecialPrice(testTenantID, SpecialPriceInput{
		ClientID:  client.ID,
		ProductID: product.ID,
		UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("1.204")),
	})
	if err != nil {
		t.Fatalf("set special price failed: %v", err)
	}
	if !first.UnitPrice.Decimal.Equal(decimal.RequireFromString("1.20")) {
		t.Errorf("expected unit price rounded to 1.20, got %s", first.UnitPrice.Decimal)
	}

	second, err := svc.SetSpecialPrice(testTenantID, SpecialPriceInput{
		ClientID:  client.ID,
		ProductID: product.ID,
		UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("1.10")),
	})
	if err != nil {
		t.Fatalf("replace special price failed: %v", err)
	}
	if !second.UnitPrice.Decimal.Equal(decimal.RequireFromString("1.10")) {
		t.Errorf("expected replaced unit price 1.10, got %s", second.UnitPrice.Decimal)
	}

	var count int64
	if err := db.Model(&models.SpecialPrice{}).
		Where("client_id = ? AND product_id = ?", client.ID, product.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count special prices failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single override row after upsert, got %d", count)
	}

	if _, err := svc.SetSpecialPrice(testTenantID, SpecialPriceInput{
		ClientID:  client.ID,
		ProductID: product.ID,
		UnitPrice: models.NewMoneyFromDecimal(decimal.Zero),
	}); !errors.Is(err, ErrSpecialPriceInvalid) {
		t.Errorf("expected ErrSpecialPriceInvalid for zero price, got %v", err)
	}
	if _, err := svc.SetSpecialPrice(testTenantID, SpecialPriceInput{
		ClientID:  client.ID,
		ProductID: 9999,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
	}); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound for unknown product, got %v", err)
	}
}

func TestDeleteSpecialPrice(t *testing.T) {
	svc, db := setupProductServiceTest(t)

	client := seedClient(t, db, "Plaza Market", "0")
	product := seedProduct(t, db, "Cola", "3.00", nil)

	if _, err := svc.SetSpecialPrice(testTenantID, SpecialPriceInput{
		ClientID:  client.ID,
		ProductID: product.ID,
		UnitPrice: models.NewMoneyFromDecimal(decimal.RequireFromString("2.50")),
	}); err != nil {
		t.Fatalf("set special price failed: %v", err)
	}

	if err := svc.DeleteSpecialPrice(testTenantID, client.ID, product.ID); err != nil {
		t.Fatalf("delete special price failed: %v", err)
	}
	prices, err := svc.ListSpecialPrices(testTenantID, client.ID)
	if err != nil {
		t.Fatalf("list special prices failed: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected no overrides left, got %d", len(prices))
	}

	if err := svc.DeleteSpecialPrice(testTenantID, client.ID, product.ID); !errors.Is(err, ErrSpecialPriceNotFound) {
		t.Errorf("expected ErrSpecialPriceNotFound, got %v", err)
	}
}
