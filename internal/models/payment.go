package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment a deposit against a client's running-account debt. Creation
// reduces the debt; deletion restores it.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	TenantID  uint           `gorm:"index;not null" json:"tenant_id"`
	ClientID  uint           `gorm:"index;not null" json:"client_id"`
	Amount    Money          `gorm:"type:decimal(20,2);not null" json:"amount"`
	Note      string         `json:"note,omitempty"`
	CreatedBy uint           `gorm:"index" json:"created_by"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Payment) TableName() string {
	return "payments"
}
