package service

import (
	"context"
	"time"

	"github.com/repartia/api/internal/cache"
	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/queue"
	"github.com/repartia/api/internal/repository"
)

// Strategy picks a courier for automatic assignment from the eligible
// candidates, in the order the user directory returned them.
type Strategy interface {
	Name() string
	Pick(candidates []models.User, excludeUserID uint) *models.User
}

// FirstEligibleStrategy assigns the first active courier, skipping the
// excluded user. No load balancing, no zoning.
type FirstEligibleStrategy struct{}

// Name returns the strategy name
func (FirstEligibleStrategy) Name() string {
	return constants.AssignStrategyFirstEligible
}

// Pick returns the first candidate that is not excluded, or nil
func (FirstEligibleStrategy) Pick(candidates []models.User, excludeUserID uint) *models.User {
	for i := range candidates {
		if candidates[i].ID == excludeUserID {
			continue
		}
		return &candidates[i]
	}
	return nil
}

// StrategyByName resolves a configured strategy name; unknown names
// fall back to first-eligible
func StrategyByName(name string) Strategy {
	switch name {
	case constants.AssignStrategyFirstEligible:
		return FirstEligibleStrategy{}
	default:
		logger.Warnw("assignment_strategy_unknown", "strategy", name,
			"fallback", constants.AssignStrategyFirstEligible)
		return FirstEligibleStrategy{}
	}
}

// AssignmentService manual and automatic courier assignment.
type AssignmentService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	strategy    Strategy
	queueClient *queue.Client
}

// NewAssignmentService creates the assignment service
func NewAssignmentService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, strategy Strategy, queueClient *queue.Client) *AssignmentService {
	if strategy == nil {
		strategy = FirstEligibleStrategy{}
	}
	return &AssignmentService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		strategy:    strategy,
		queueClient: queueClient,
	}
}

// AssignOrder assigns an order to a user unconditionally. Idempotent;
// no eligibility check; only a missing order fails.
func (s *AssignmentService) AssignOrder(tenantID, orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.TenantID != tenantID {
		return nil, ErrOrderNotFound
	}

	previous := order.AssignedTo
	if previous != nil && *previous == userID {
		return order, nil
	}

	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"assigned_to": userID,
		"updated_at":  time.Now(),
	}); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.AssignedTo = &userID

	s.afterAssignment(order, previous, userID)
	return order, nil
}

// AutoAssign picks a courier via the configured strategy and assigns
// the order. Returns nil without error when no courier is eligible.
func (s *AssignmentService) AutoAssign(tenantID, orderID, excludeUserID uint) (*models.User, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.TenantID != tenantID {
		return nil, ErrOrderNotFound
	}

	candidates, err := s.userRepo.ListDeliverers(tenantID)
	if err != nil {
		return nil, err
	}
	picked := s.strategy.Pick(candidates, excludeUserID)
	if picked == nil {
		return nil, nil
	}
	if _, err := s.AssignOrder(tenantID, orderID, picked.ID); err != nil {
		return nil, err
	}
	return picked, nil
}

// afterAssignment drops stale work list caches and notifies the
// worker. Failures here never fail the assignment itself.
func (s *AssignmentService) afterAssignment(order *models.Order, previous *uint, userID uint) {
	ctx := context.Background()
	day := time.Now().Format("2006-01-02")
	if err := cache.DelWorkList(ctx, order.TenantID, userID, day); err != nil {
		logger.Warnw("worklist_cache_invalidate_failed",
			"tenant_id", order.TenantID, "user_id", userID, "error", err)
	}
	if previous != nil {
		if err := cache.DelWorkList(ctx, order.TenantID, *previous, day); err != nil {
			logger.Warnw("worklist_cache_invalidate_failed",
				"tenant_id", order.TenantID, "user_id", *previous, "error", err)
		}
	}

	if !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderAssigned(queue.OrderAssignedPayload{
		TenantID: order.TenantID,
		OrderID:  order.ID,
		UserID:   userID,
	}); err != nil {
		logger.Warnw("assignment_enqueue_notify_failed",
			"order_id", order.ID, "user_id", userID, "error", err)
	}
	if err := s.queueClient.EnqueueWorkListRefresh(queue.WorkListRefreshPayload{
		TenantID: order.TenantID,
		UserID:   userID,
		Day:      day,
	}); err != nil {
		logger.Warnw("assignment_enqueue_refresh_failed",
			"order_id", order.ID, "user_id", userID, "error", err)
	}
}
