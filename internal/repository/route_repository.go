package repository

import (
	"errors"

	"github.com/repartia/api/internal/models"

	"gorm.io/gorm"
)

// RouteRepository scheduled route data access interface
type RouteRepository interface {
	Create(route *models.ScheduledRoute) error
	GetByID(id uint) (*models.ScheduledRoute, error)
	Update(route *models.ScheduledRoute) error
	Delete(id uint) error
	List(filter RouteListFilter) ([]models.ScheduledRoute, int64, error)
	ListForSellerWeekday(tenantID, sellerID uint, weekday int) ([]models.ScheduledRoute, error)
	WithTx(tx *gorm.DB) *GormRouteRepository
}

// GormRouteRepository GORM implementation
type GormRouteRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates the route repository
func NewRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// WithTx binds a transaction
func (r *GormRouteRepository) WithTx(tx *gorm.DB) *GormRouteRepository {
	if tx == nil {
		return r
	}
	return &GormRouteRepository{db: tx}
}

// Create creates a scheduled route
func (r *GormRouteRepository) Create(route *models.ScheduledRoute) error {
	return r.db.Create(route).Error
}

// GetByID gets a scheduled route by ID
func (r *GormRouteRepository) GetByID(id uint) (*models.ScheduledRoute, error) {
	if id == 0 {
		return nil, nil
	}
	var route models.ScheduledRoute
	if err := r.db.First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

// Update saves a scheduled route
func (r *GormRouteRepository) Update(route *models.ScheduledRoute) error {
	return r.db.Save(route).Error
}

// Delete soft-deletes a scheduled route
func (r *GormRouteRepository) Delete(id uint) error {
	return r.db.Delete(&models.ScheduledRoute{}, id).Error
}

// List lists scheduled routes with pagination
func (r *GormRouteRepository) List(filter RouteListFilter) ([]models.ScheduledRoute, int64, error) {
	query := r.db.Model(&models.ScheduledRoute{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.ClientID != 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.Weekday != nil {
		query = query.Where("weekday = ?", *filter.Weekday)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var routes []models.ScheduledRoute
	if err := query.Order("weekday asc, visit_order asc, id asc").Find(&routes).Error; err != nil {
		return nil, 0, err
	}
	return routes, total, nil
}

// ListForSellerWeekday lists a seller's active routes for one weekday in
// visit order
func (r *GormRouteRepository) ListForSellerWeekday(tenantID, sellerID uint, weekday int) ([]models.ScheduledRoute, error) {
	var routes []models.ScheduledRoute
	if err := r.db.
		Where("tenant_id = ? AND seller_id = ? AND weekday = ? AND is_active = ?",
			tenantID, sellerID, weekday, true).
		Order("visit_order asc, id asc").
		Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}
