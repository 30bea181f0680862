package models

import (
	"time"

	"gorm.io/gorm"
)

// Credit owed product: the business owes the client Quantity units of a
// product because an order line was not delivered. A credit is open
// while Delivered is false; at most one open credit exists per
// (order, product).
type Credit struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TenantID    uint           `gorm:"index;not null" json:"tenant_id"`
	ClientID    uint           `gorm:"index;not null" json:"client_id"`
	ProductID   uint           `gorm:"index;not null" json:"product_id"`
	OrderID     uint           `gorm:"index;not null" json:"order_id"`
	OrderLineID uint           `gorm:"index" json:"order_line_id"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Reason      string         `json:"reason,omitempty"`
	Note        string         `json:"note,omitempty"`
	CreatedBy   uint           `gorm:"index" json:"created_by"`
	Delivered   bool           `gorm:"index;default:false" json:"delivered"`
	DeliveredBy *uint          `json:"delivered_by,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Credit) TableName() string {
	return "credits"
}
