package queue

import (
	"encoding/json"

	"github.com/repartia/api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskWorkListRefresh rebuilds and re-caches a user's daily work
	// list after an assignment change
	TaskWorkListRefresh = constants.TaskWorkListRefresh
	// TaskOrderAssigned notification hook for a courier's new
	// assignment
	TaskOrderAssigned = constants.TaskOrderAssigned
)

// WorkListRefreshPayload work list refresh task payload
type WorkListRefreshPayload struct {
	TenantID uint   `json:"tenant_id"`
	UserID   uint   `json:"user_id"`
	Day      string `json:"day"` // 2006-01-02
}

// OrderAssignedPayload assignment notification task payload
type OrderAssignedPayload struct {
	TenantID uint `json:"tenant_id"`
	OrderID  uint `json:"order_id"`
	UserID   uint `json:"user_id"`
}

// NewWorkListRefreshTask creates a work list refresh task
func NewWorkListRefreshTask(payload WorkListRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWorkListRefresh, body), nil
}

// NewOrderAssignedTask creates an assignment notification task
func NewOrderAssignedTask(payload OrderAssignedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderAssigned, body), nil
}
