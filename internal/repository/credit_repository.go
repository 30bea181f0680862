package repository

import (
	"errors"
	"time"

	"github.com/repartia/api/internal/models"

	"gorm.io/gorm"
)

// CreditRepository owed product data access interface
type CreditRepository interface {
	Create(credit *models.Credit) error
	GetByID(id uint) (*models.Credit, error)
	GetOpenByOrderAndProduct(orderID, productID uint) (*models.Credit, error)
	ListOpenByOrder(orderID uint) ([]models.Credit, error)
	Update(credit *models.Credit) error
	Delete(id uint) error
	MarkDelivered(id uint, deliveredBy uint, deliveredAt time.Time) error
	List(filter CreditListFilter) ([]models.Credit, int64, error)
	WithTx(tx *gorm.DB) *GormCreditRepository
}

// GormCreditRepository GORM implementation
type GormCreditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates the credit repository
func NewCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

// WithTx binds a transaction
func (r *GormCreditRepository) WithTx(tx *gorm.DB) *GormCreditRepository {
	if tx == nil {
		return r
	}
	return &GormCreditRepository{db: tx}
}

// Create creates a credit
func (r *GormCreditRepository) Create(credit *models.Credit) error {
	return r.db.Create(credit).Error
}

// GetByID gets a credit by ID
func (r *GormCreditRepository) GetByID(id uint) (*models.Credit, error) {
	if id == 0 {
		return nil, nil
	}
	var credit models.Credit
	if err := r.db.First(&credit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credit, nil
}

// GetOpenByOrderAndProduct gets the open credit for (order, product); at
// most one exists
func (r *GormCreditRepository) GetOpenByOrderAndProduct(orderID, productID uint) (*models.Credit, error) {
	if orderID == 0 || productID == 0 {
		return nil, nil
	}
	var credit models.Credit
	if err := r.db.Where("order_id = ? AND product_id = ? AND delivered = ?", orderID, productID, false).
		First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credit, nil
}

// ListOpenByOrder lists an order's open credits
func (r *GormCreditRepository) ListOpenByOrder(orderID uint) ([]models.Credit, error) {
	if orderID == 0 {
		return []models.Credit{}, nil
	}
	var credits []models.Credit
	if err := r.db.Where("order_id = ? AND delivered = ?", orderID, false).
		Order("id asc").
		Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Update saves a credit
func (r *GormCreditRepository) Update(credit *models.Credit) error {
	return r.db.Save(credit).Error
}

// Delete soft-deletes a credit
func (r *GormCreditRepository) Delete(id uint) error {
	return r.db.Delete(&models.Credit{}, id).Error
}

// MarkDelivered closes a credit
func (r *GormCreditRepository) MarkDelivered(id uint, deliveredBy uint, deliveredAt time.Time) error {
	return r.db.Model(&models.Credit{}).
		Where("id = ? AND delivered = ?", id, false).
		Updates(map[string]interface{}{
			"delivered":    true,
			"delivered_by": deliveredBy,
			"delivered_at": deliveredAt,
		}).Error
}

// List lists credits with pagination
func (r *GormCreditRepository) List(filter CreditListFilter) ([]models.Credit, int64, error) {
	query := r.db.Model(&models.Credit{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.ClientID != 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.OnlyOpen {
		query = query.Where("delivered = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var credits []models.Credit
	if err := query.Order("id desc").Find(&credits).Error; err != nil {
		return nil, 0, err
	}
	return credits, total, nil
}
