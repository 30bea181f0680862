package models

import (
	"time"

	"gorm.io/gorm"
)

// Order a sale: lines, payment allocations, delivery state. Status is
// recomputed from the lines' delivered flags on every fulfillment
// update.
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	TenantID       uint           `gorm:"index;not null" json:"tenant_id"`
	ClientID       uint           `gorm:"index;not null" json:"client_id"`
	CreatedBy      uint           `gorm:"index;not null" json:"created_by"`
	AssignedTo     *uint          `gorm:"index" json:"assigned_to,omitempty"`
	Status         string         `gorm:"index;not null;default:'not_delivered'" json:"status"`
	OriginalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"` // sum of line prices before the global discount
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // global client discount amount
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	DeliveredAt    *time.Time     `gorm:"index" json:"delivered_at"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Lines       []OrderLine         `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
	Allocations []PaymentAllocation `gorm:"foreignKey:OrderID" json:"allocations,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderLine one product position within an order. Delivered stays nil
// until the line is checked for the first time; the check metadata
// records who confirmed it and why.
type OrderLine struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderID     uint           `gorm:"not null;uniqueIndex:idx_order_line_order_product" json:"order_id"`
	ProductID   uint           `gorm:"not null;uniqueIndex:idx_order_line_order_product" json:"product_id"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	FinalPrice  Money          `gorm:"type:decimal(20,2);not null" json:"final_price"` // tier-optimized price after all discount layers
	Delivered   *bool          `gorm:"index" json:"delivered"`
	CheckReason string         `json:"check_reason,omitempty"`
	CheckNote   string         `json:"check_note,omitempty"`
	CheckedBy   *uint          `json:"checked_by,omitempty"`
	CheckedAt   *time.Time     `json:"checked_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (OrderLine) TableName() string {
	return "order_lines"
}

// PaymentAllocation how much of an order's total is covered by one
// payment method; several allocations may cover one order.
type PaymentAllocation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OrderID   uint           `gorm:"index;not null" json:"order_id"`
	Method    string         `gorm:"type:varchar(20);not null" json:"method"`
	Amount    Money          `gorm:"type:decimal(20,2);not null" json:"amount"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}
