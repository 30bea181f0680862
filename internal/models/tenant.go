package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant distributor account; every domain row is scoped to one tenant.
type Tenant struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Tenant) TableName() string {
	return "tenants"
}
