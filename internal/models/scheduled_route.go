package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduledRoute recurring weekday visit: seller → client, ordered
// within the day. Independent of any concrete order; it seeds the daily
// work list as a placeholder until a real order exists.
type ScheduledRoute struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	TenantID   uint           `gorm:"index;not null" json:"tenant_id"`
	SellerID   uint           `gorm:"index;not null" json:"seller_id"`
	ClientID   uint           `gorm:"index;not null" json:"client_id"`
	Weekday    int            `gorm:"index;not null" json:"weekday"` // time.Weekday: 0 = Sunday
	VisitOrder int            `gorm:"not null;default:0" json:"visit_order"`
	IsActive   bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (ScheduledRoute) TableName() string {
	return "scheduled_routes"
}
