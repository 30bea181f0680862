package models

import (
	"time"
)

// SpecialPrice per-(client, product) unit price override. It replaces
// the base price for quantity-1 pricing before pack optimization.
type SpecialPrice struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TenantID  uint      `gorm:"index;not null" json:"tenant_id"`
	ClientID  uint      `gorm:"not null;uniqueIndex:idx_special_price_client_product" json:"client_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_special_price_client_product" json:"product_id"`
	UnitPrice Money     `gorm:"type:decimal(20,2);not null" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (SpecialPrice) TableName() string {
	return "special_prices"
}
