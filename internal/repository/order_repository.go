package repository

import (
	"errors"
	"time"

	"github.com/repartia/api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository order data access interface
type OrderRepository interface {
	Create(order *models.Order, lines []models.OrderLine, allocations []models.PaymentAllocation) error
	GetByID(id uint) (*models.Order, error)
	GetByIDForUpdate(id uint) (*models.Order, error)
	Update(order *models.Order) error
	UpdateFields(id uint, updates map[string]interface{}) error
	UpdateLine(line *models.OrderLine) error
	GetLine(orderID, lineID uint) (*models.OrderLine, error)
	ReplaceLines(orderID uint, lines []models.OrderLine) error
	ReplaceAllocations(orderID uint, allocations []models.PaymentAllocation) error
	Delete(id uint) error
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListAssignedOnDate(tenantID, userID uint, dayStart, dayEnd time.Time) ([]models.Order, error)
	ListCreatedOnDate(tenantID, userID uint, dayStart, dayEnd time.Time) ([]models.Order, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM implementation
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds a transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Lines").Preload("Allocations")
}

// Create creates an order with its lines and payment allocations
func (r *GormOrderRepository) Create(order *models.Order, lines []models.OrderLine, allocations []models.PaymentAllocation) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
	}
	if len(lines) > 0 {
		if err := r.db.Create(&lines).Error; err != nil {
			return err
		}
	}
	for i := range allocations {
		allocations[i].OrderID = order.ID
	}
	if len(allocations) > 0 {
		if err := r.db.Create(&allocations).Error; err != nil {
			return err
		}
	}
	order.Lines = lines
	order.Allocations = allocations
	return nil
}

// GetByID gets an order with lines and allocations by ID
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	var order models.Order
	if err := r.withDetails(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate gets an order with a row lock, lines and allocations
// preloaded
func (r *GormOrderRepository) GetByIDForUpdate(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	var order models.Order
	if err := r.withDetails(r.db.Clauses(clause.Locking{Strength: "UPDATE"})).
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Update saves an order
func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateFields updates selected order columns
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateLine saves an order line
func (r *GormOrderRepository) UpdateLine(line *models.OrderLine) error {
	return r.db.Save(line).Error
}

// GetLine gets one line of an order
func (r *GormOrderRepository) GetLine(orderID, lineID uint) (*models.OrderLine, error) {
	if orderID == 0 || lineID == 0 {
		return nil, nil
	}
	var line models.OrderLine
	if err := r.db.Where("id = ? AND order_id = ?", lineID, orderID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// ReplaceLines swaps an order's lines for the given set
func (r *GormOrderRepository) ReplaceLines(orderID uint, lines []models.OrderLine) error {
	if err := r.db.Unscoped().Where("order_id = ?", orderID).
		Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].OrderID = orderID
	}
	return r.db.Create(&lines).Error
}

// ReplaceAllocations swaps an order's payment allocations for the given
// set
func (r *GormOrderRepository) ReplaceAllocations(orderID uint, allocations []models.PaymentAllocation) error {
	if err := r.db.Unscoped().Where("order_id = ?", orderID).
		Delete(&models.PaymentAllocation{}).Error; err != nil {
		return err
	}
	if len(allocations) == 0 {
		return nil
	}
	for i := range allocations {
		allocations[i].ID = 0
		allocations[i].OrderID = orderID
	}
	return r.db.Create(&allocations).Error
}

// Delete soft-deletes an order
func (r *GormOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

// List lists orders with pagination
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.ClientID != 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.CreatedBy != 0 {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.AssignedTo != 0 {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Unassigned {
		query = query.Where("assigned_to IS NULL")
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := r.withDetails(query).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAssignedOnDate lists a courier's orders that belong to one day:
// created within it or delivered within it
func (r *GormOrderRepository) ListAssignedOnDate(tenantID, userID uint, dayStart, dayEnd time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withDetails(r.db).
		Where("tenant_id = ? AND assigned_to = ?", tenantID, userID).
		Where("(created_at >= ? AND created_at < ?) OR (delivered_at >= ? AND delivered_at < ?)",
			dayStart, dayEnd, dayStart, dayEnd).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListCreatedOnDate lists a seller's orders created within one day
func (r *GormOrderRepository) ListCreatedOnDate(tenantID, userID uint, dayStart, dayEnd time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.withDetails(r.db).
		Where("tenant_id = ? AND created_by = ?", tenantID, userID).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
