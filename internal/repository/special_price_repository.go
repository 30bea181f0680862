package repository

import (
	"errors"

	"github.com/repartia/api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpecialPriceRepository per-client price override data access interface
type SpecialPriceRepository interface {
	Upsert(price *models.SpecialPrice) error
	Get(clientID, productID uint) (*models.SpecialPrice, error)
	GetByClientAndProducts(clientID uint, productIDs []uint) ([]models.SpecialPrice, error)
	ListByClient(clientID uint) ([]models.SpecialPrice, error)
	Delete(clientID, productID uint) error
	WithTx(tx *gorm.DB) *GormSpecialPriceRepository
}

// GormSpecialPriceRepository GORM implementation
type GormSpecialPriceRepository struct {
	db *gorm.DB
}

// NewSpecialPriceRepository creates the special price repository
func NewSpecialPriceRepository(db *gorm.DB) *GormSpecialPriceRepository {
	return &GormSpecialPriceRepository{db: db}
}

// WithTx binds a transaction
func (r *GormSpecialPriceRepository) WithTx(tx *gorm.DB) *GormSpecialPriceRepository {
	if tx == nil {
		return r
	}
	return &GormSpecialPriceRepository{db: tx}
}

// Upsert creates or updates the override for (client, product)
func (r *GormSpecialPriceRepository) Upsert(price *models.SpecialPrice) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit_price", "updated_at"}),
	}).Create(price).Error
}

// Get gets the override for (client, product)
func (r *GormSpecialPriceRepository) Get(clientID, productID uint) (*models.SpecialPrice, error) {
	if clientID == 0 || productID == 0 {
		return nil, nil
	}
	var price models.SpecialPrice
	if err := r.db.Where("client_id = ? AND product_id = ?", clientID, productID).
		First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// GetByClientAndProducts gets a client's overrides for a product set
func (r *GormSpecialPriceRepository) GetByClientAndProducts(clientID uint, productIDs []uint) ([]models.SpecialPrice, error) {
	if clientID == 0 || len(productIDs) == 0 {
		return []models.SpecialPrice{}, nil
	}
	var prices []models.SpecialPrice
	if err := r.db.Where("client_id = ? AND product_id IN ?", clientID, productIDs).
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// ListByClient lists all overrides for a client
func (r *GormSpecialPriceRepository) ListByClient(clientID uint) ([]models.SpecialPrice, error) {
	var prices []models.SpecialPrice
	if err := r.db.Where("client_id = ?", clientID).
		Order("product_id asc").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Delete removes the override for (client, product)
func (r *GormSpecialPriceRepository) Delete(clientID, productID uint) error {
	return r.db.Where("client_id = ? AND product_id = ?", clientID, productID).
		Delete(&models.SpecialPrice{}).Error
}
