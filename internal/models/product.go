package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product catalog item. The discount is a percent reduction applied to
// the tier-optimized subtotal; unless indefinite it lapses once
// DiscountExpiresAt passes (evaluated on read, not by a scheduled job).
type Product struct {
	ID                 uint            `gorm:"primarykey" json:"id"`
	TenantID           uint            `gorm:"index;not null" json:"tenant_id"`
	Name               string          `gorm:"index;not null" json:"name"`
	BasePrice          Money           `gorm:"type:decimal(20,2);not null;default:0" json:"base_price"`
	DiscountPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	DiscountIndefinite bool            `gorm:"default:false" json:"discount_indefinite"`
	DiscountExpiresAt  *time.Time      `json:"discount_expires_at"`
	IsActive           bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	Tiers []PackTier `gorm:"foreignKey:ProductID" json:"tiers,omitempty"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// DiscountActiveAt reports whether the product discount applies at the
// given instant.
func (p *Product) DiscountActiveAt(now time.Time) bool {
	if p == nil || p.DiscountPercent.LessThanOrEqual(decimal.Zero) {
		return false
	}
	if p.DiscountIndefinite {
		return true
	}
	return p.DiscountExpiresAt != nil && p.DiscountExpiresAt.After(now)
}

// PackTier bulk price point: Quantity units for TotalPrice, usable
// repeatedly to cover part of a requested quantity. Quantity is at
// least 2 and unique per product.
type PackTier struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_pack_tier_product_qty" json:"product_id"`
	Quantity   int       `gorm:"not null;uniqueIndex:idx_pack_tier_product_qty" json:"quantity"`
	TotalPrice Money     `gorm:"type:decimal(20,2);not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (PackTier) TableName() string {
	return "pack_tiers"
}
