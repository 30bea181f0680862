package service

import (
	"strings"
	"time"

	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/pricing"
	"github.com/repartia/api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService catalog service: products, pack tiers, per-client
// special prices, lazy discount expiry.
type ProductService struct {
	productRepo repository.ProductRepository
	specialRepo repository.SpecialPriceRepository
}

// PackTierInput pack tier input
type PackTierInput struct {
	Quantity   int
	TotalPrice models.Money
}

// ProductInput product create/update input
type ProductInput struct {
	Name               string
	BasePrice          models.Money
	DiscountPercent    decimal.Decimal
	DiscountIndefinite bool
	DiscountExpiresAt  *time.Time
	IsActive           *bool
	Tiers              []PackTierInput
}

// SpecialPriceInput per-client unit price override input
type SpecialPriceInput struct {
	ClientID  uint
	ProductID uint
	UnitPrice models.Money
}

// NewProductService creates the product service
func NewProductService(productRepo repository.ProductRepository, specialRepo repository.SpecialPriceRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		specialRepo: specialRepo,
	}
}

func buildPricingTiers(tiers []models.PackTier) []pricing.Tier {
	out := make([]pricing.Tier, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, pricing.Tier{
			Quantity: tier.Quantity,
			Price:    tier.TotalPrice.Decimal,
		})
	}
	return out
}

func validateTierInputs(tiers []PackTierInput) error {
	check := make([]pricing.Tier, 0, len(tiers))
	for _, tier := range tiers {
		check = append(check, pricing.Tier{Quantity: tier.Quantity, Price: tier.TotalPrice.Decimal})
	}
	if err := pricing.ValidateTiers(check); err != nil {
		return ErrProductTierInvalid
	}
	return nil
}

// CreateProduct creates a product with validated pack tiers
func (s *ProductService) CreateProduct(tenantID uint, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductInvalid
	}
	if input.BasePrice.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrProductInvalid
	}
	if input.DiscountPercent.LessThan(decimal.Zero) || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrProductInvalid
	}
	if err := validateTierInputs(input.Tiers); err != nil {
		return nil, err
	}

	product := &models.Product{
		TenantID:           tenantID,
		Name:               name,
		BasePrice:          input.BasePrice,
		DiscountPercent:    input.DiscountPercent,
		DiscountIndefinite: input.DiscountIndefinite,
		DiscountExpiresAt:  input.DiscountExpiresAt,
		IsActive:           true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	for _, tier := range input.Tiers {
		product.Tiers = append(product.Tiers, models.PackTier{
			Quantity:   tier.Quantity,
			TotalPrice: tier.TotalPrice,
		})
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates a product and swaps its pack tiers
func (s *ProductService) UpdateProduct(tenantID, productID uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, ErrProductNotFound
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProductInvalid
	}
	if input.BasePrice.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrProductInvalid
	}
	if input.DiscountPercent.LessThan(decimal.Zero) || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrProductInvalid
	}
	if err := validateTierInputs(input.Tiers); err != nil {
		return nil, err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		product.Name = name
		product.BasePrice = input.BasePrice
		product.DiscountPercent = input.DiscountPercent
		product.DiscountIndefinite = input.DiscountIndefinite
		product.DiscountExpiresAt = input.DiscountExpiresAt
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}
		product.Tiers = nil
		if err := repo.Update(product); err != nil {
			return err
		}
		tiers := make([]models.PackTier, 0, len(input.Tiers))
		for _, tier := range input.Tiers {
			tiers = append(tiers, models.PackTier{
				Quantity:   tier.Quantity,
				TotalPrice: tier.TotalPrice,
			})
		}
		return repo.ReplaceTiers(product.ID, tiers)
	})
	if err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(product.ID)
}

// GetProduct gets a tenant's product
func (s *ProductService) GetProduct(tenantID, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts lists products with pagination
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// NormalizeDiscount lapses an expired product discount: when the
// discount is positive, not indefinite, and past its expiry, it is
// zeroed in memory and persisted through the given transaction.
// Expiry is evaluated on every read; there is no scheduled job.
func (s *ProductService) NormalizeDiscount(tx *gorm.DB, product *models.Product, now time.Time) error {
	if product == nil {
		return nil
	}
	if product.DiscountPercent.LessThanOrEqual(decimal.Zero) || product.DiscountIndefinite {
		return nil
	}
	if product.DiscountExpiresAt == nil || product.DiscountExpiresAt.After(now) {
		return nil
	}
	if err := s.productRepo.WithTx(tx).ClearExpiredDiscount(product.ID); err != nil {
		return err
	}
	logger.Infow("product_discount_expired",
		"product_id", product.ID,
		"discount_percent", product.DiscountPercent.String(),
		"expired_at", product.DiscountExpiresAt,
	)
	product.DiscountPercent = decimal.Zero
	product.DiscountExpiresAt = nil
	return nil
}

// SetSpecialPrice creates or replaces the unit price override for
// (client, product)
func (s *ProductService) SetSpecialPrice(tenantID uint, input SpecialPriceInput) (*models.SpecialPrice, error) {
	if input.ClientID == 0 || input.ProductID == 0 {
		return nil, ErrSpecialPriceInvalid
	}
	if input.UnitPrice.Decimal.LessThanOrEqual(decimal.Zero) {
		return nil, ErrSpecialPriceInvalid
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.TenantID != tenantID {
		return nil, ErrProductNotFound
	}

	price := &models.SpecialPrice{
		TenantID:  tenantID,
		ClientID:  input.ClientID,
		ProductID: input.ProductID,
		UnitPrice: models.NewMoneyFromDecimal(input.UnitPrice.Decimal.Round(2)),
	}
	if err := s.specialRepo.Upsert(price); err != nil {
		return nil, err
	}
	return s.specialRepo.Get(input.ClientID, input.ProductID)
}

// DeleteSpecialPrice removes the unit price override for (client,
// product)
func (s *ProductService) DeleteSpecialPrice(tenantID, clientID, productID uint) error {
	price, err := s.specialRepo.Get(clientID, productID)
	if err != nil {
		return err
	}
	if price == nil || price.TenantID != tenantID {
		return ErrSpecialPriceNotFound
	}
	return s.specialRepo.Delete(clientID, productID)
}

// ListSpecialPrices lists a client's unit price overrides
func (s *ProductService) ListSpecialPrices(tenantID, clientID uint) ([]models.SpecialPrice, error) {
	prices, err := s.specialRepo.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	out := make([]models.SpecialPrice, 0, len(prices))
	for _, price := range prices {
		if price.TenantID != tenantID {
			continue
		}
		out = append(out, price)
	}
	return out, nil
}
