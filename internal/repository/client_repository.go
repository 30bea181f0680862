package repository

import (
	"errors"

	"github.com/repartia/api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientRepository client data access interface
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetByIDForUpdate(id uint) (*models.Client, error)
	GetByIDs(ids []uint) ([]models.Client, error)
	Update(client *models.Client) error
	Delete(id uint) error
	List(filter ClientListFilter) ([]models.Client, int64, error)
	WithTx(tx *gorm.DB) *GormClientRepository
}

// GormClientRepository GORM implementation
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates the client repository
func NewClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// WithTx binds a transaction
func (r *GormClientRepository) WithTx(tx *gorm.DB) *GormClientRepository {
	if tx == nil {
		return r
	}
	return &GormClientRepository{db: tx}
}

// Create creates a client
func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID gets a client by ID
func (r *GormClientRepository) GetByID(id uint) (*models.Client, error) {
	if id == 0 {
		return nil, nil
	}
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// GetByIDForUpdate gets a client by ID with a row lock. Debt mutations
// go through this inside a transaction.
func (r *GormClientRepository) GetByIDForUpdate(id uint) (*models.Client, error) {
	if id == 0 {
		return nil, nil
	}
	var client models.Client
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// GetByIDs gets clients in batch
func (r *GormClientRepository) GetByIDs(ids []uint) ([]models.Client, error) {
	if len(ids) == 0 {
		return []models.Client{}, nil
	}
	var clients []models.Client
	if err := r.db.Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Update saves a client
func (r *GormClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete soft-deletes a client
func (r *GormClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}

// List lists clients with pagination
func (r *GormClientRepository) List(filter ClientListFilter) ([]models.Client, int64, error) {
	query := r.db.Model(&models.Client{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR address LIKE ? OR phone LIKE ?)", like, like, like)
	}
	if filter.WithDebt {
		query = query.Where("debt > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var clients []models.Client
	if err := query.Order("name asc").Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}
