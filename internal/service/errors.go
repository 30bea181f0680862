package service

import "errors"

// Business errors surfaced to handlers through errors.Is mapping.
var (
	// Auth
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrPermissionDenied   = errors.New("permission denied")

	// Catalog
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInvalid       = errors.New("invalid product")
	ErrProductTierInvalid   = errors.New("invalid pack tier configuration")
	ErrClientNotFound       = errors.New("client not found")
	ErrClientInvalid        = errors.New("invalid client")
	ErrSpecialPriceInvalid  = errors.New("invalid special price")
	ErrSpecialPriceNotFound = errors.New("special price not found")

	// Orders
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNoLines       = errors.New("order has no lines")
	ErrOrderInvalidLine   = errors.New("invalid order line")
	ErrOrderInvalidTotal  = errors.New("order total must be positive")
	ErrOrderInvalidStatus = errors.New("invalid order delivery status")
	ErrOrderLineNotFound  = errors.New("order line not found")
	ErrOrderCreateFailed  = errors.New("order create failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
	ErrOrderDeleteFailed  = errors.New("order delete failed")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrAllocationInvalid  = errors.New("invalid payment allocation")

	// Debt ledger
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentInvalidAmount = errors.New("payment amount must be positive")
	ErrPaymentExceedsDebt   = errors.New("payment amount exceeds client debt")
	ErrPaymentCreateFailed  = errors.New("payment create failed")
	ErrPaymentDeleteFailed  = errors.New("payment delete failed")
	ErrDebtUpdateFailed     = errors.New("debt update failed")

	// Fulfillment
	ErrCreditNotFound         = errors.New("credit not found")
	ErrCreditAlreadyDelivered = errors.New("credit already delivered")
	ErrCreditUpdateFailed     = errors.New("credit update failed")
	ErrFulfillmentFailed      = errors.New("fulfillment update failed")

	// Assignment and routes
	ErrRouteNotFound = errors.New("scheduled route not found")
	ErrRouteInvalid  = errors.New("invalid scheduled route")
)
