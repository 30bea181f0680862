package constants

// Payment methods accepted on a sale. "account" is the running-account
// method: it collects nothing at sale time and increases client debt.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodAccount  = "account"
)

// Order delivery states, a pure function of the order's line flags.
const (
	DeliveryStatusNotDelivered = "not_delivered"
	DeliveryStatusPartial      = "partial"
	DeliveryStatusDelivered    = "delivered"
)

// Work-list entry states.
const (
	WorkListStatusPending = "pending"
)

// Work-list entry sources.
const (
	WorkListSourceOrder = "order"
	WorkListSourceRoute = "route"
)

// User status values.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Asynq task type names.
const (
	TaskWorkListRefresh = "worklist:refresh"
	TaskOrderAssigned   = "order:assigned"
)

// QueueDefault default asynq queue name.
const QueueDefault = "default"

// Auto-assignment strategy names.
const (
	AssignStrategyFirstEligible = "first_eligible"
)
