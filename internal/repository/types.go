package repository

import "time"

// ClientListFilter filter for client list queries
type ClientListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Search   string
	WithDebt bool
}

// ProductListFilter filter for product list queries
type ProductListFilter struct {
	Page       int
	PageSize   int
	TenantID   uint
	Search     string
	OnlyActive bool
	WithTiers  bool
}

// OrderListFilter filter for order list queries
type OrderListFilter struct {
	Page        int
	PageSize    int
	TenantID    uint
	ClientID    uint
	CreatedBy   uint
	AssignedTo  uint
	Status      string
	Unassigned  bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter filter for payment list queries
type PaymentListFilter struct {
	Page        int
	PageSize    int
	TenantID    uint
	ClientID    uint
	CreatedBy   uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CreditListFilter filter for credit list queries
type CreditListFilter struct {
	Page      int
	PageSize  int
	TenantID  uint
	ClientID  uint
	ProductID uint
	OrderID   uint
	OnlyOpen  bool
}

// RouteListFilter filter for scheduled route list queries
type RouteListFilter struct {
	Page       int
	PageSize   int
	TenantID   uint
	SellerID   uint
	ClientID   uint
	Weekday    *int
	OnlyActive bool
}

// UserListFilter filter for user list queries
type UserListFilter struct {
	Page     int
	PageSize int
	TenantID uint
	Keyword  string
	Status   string
}
