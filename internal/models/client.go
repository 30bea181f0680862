package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client a buyer on the distribution route. Debt is the running-account
// balance and is never negative.
type Client struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	TenantID        uint            `gorm:"index;not null" json:"tenant_id"`
	Name            string          `gorm:"index;not null" json:"name"`
	Address         string          `json:"address,omitempty"`
	Phone           string          `gorm:"type:varchar(40)" json:"phone,omitempty"`
	Debt            Money           `gorm:"type:decimal(20,2);not null;default:0" json:"debt"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"` // global discount applied to the whole order
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Client) TableName() string {
	return "clients"
}
