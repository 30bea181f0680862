package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/provider"
	"github.com/repartia/api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer asynchronous task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers the task handlers
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskWorkListRefresh, c.handleWorkListRefresh)
	mux.HandleFunc(queue.TaskOrderAssigned, c.handleOrderAssigned)
}

// handleWorkListRefresh recomputes and re-caches one user's daily work
// list after an assignment change.
func (c *Consumer) handleWorkListRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_worklist_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.WorkListRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_worklist_refresh_unmarshal_failed", "error", err)
		return err
	}
	if payload.TenantID == 0 || payload.UserID == 0 {
		logger.Debugw("worker_worklist_refresh_skip_invalid_payload",
			"tenant_id", payload.TenantID, "user_id", payload.UserID)
		return nil
	}
	date, err := time.ParseInLocation("2006-01-02", payload.Day, time.Local)
	if err != nil {
		logger.Warnw("worker_worklist_refresh_invalid_day", "day", payload.Day, "error", err)
		return nil
	}
	if err := c.WorkListService.Rebuild(ctx, payload.TenantID, payload.UserID, date); err != nil {
		logger.Warnw("worker_worklist_refresh_failed",
			"tenant_id", payload.TenantID, "user_id", payload.UserID, "day", payload.Day, "error", err)
		return err
	}
	logger.Infow("worker_worklist_refreshed",
		"tenant_id", payload.TenantID, "user_id", payload.UserID, "day", payload.Day)
	return nil
}

// handleOrderAssigned records the assignment for the courier's feed.
func (c *Consumer) handleOrderAssigned(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_assigned_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderAssignedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_assigned_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.UserID == 0 {
		logger.Debugw("worker_order_assigned_skip_invalid_payload",
			"order_id", payload.OrderID, "user_id", payload.UserID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_assigned_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_assigned_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	logger.Infow("worker_order_assigned",
		"order_id", order.ID,
		"client_id", order.ClientID,
		"user_id", payload.UserID,
		"status", order.Status,
	)
	return nil
}
