package models

import (
	"time"

	"gorm.io/gorm"
)

// User field worker or administrator. Role flags shape the daily work
// list: CanSell only (visits), CanDeliver only (deliveries), both or
// IsAdmin (merged list).
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	TenantID     uint           `gorm:"index;not null" json:"tenant_id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`
	DisplayName  string         `json:"display_name"`
	CanSell      bool           `gorm:"default:false" json:"can_sell"`
	CanDeliver   bool           `gorm:"default:false" json:"can_deliver"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
	Status       string         `gorm:"index;not null;default:'active'" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
