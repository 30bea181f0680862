package service

import (
	"time"

	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"gorm.io/gorm"
)

// FulfillmentService per-line delivery state machine. Flipping a line
// to not-delivered opens a credit for the owed quantity, flipping it
// back closes the credit, and the order-level state is recomputed from
// the lines after every batch.
type FulfillmentService struct {
	orderRepo  repository.OrderRepository
	creditRepo repository.CreditRepository
}

// LineCheckInput one delivery check for an order line, keyed by
// product
type LineCheckInput struct {
	ProductID uint
	Delivered bool
	Reason    string
	Note      string
}

// NewFulfillmentService creates the fulfillment service
func NewFulfillmentService(orderRepo repository.OrderRepository, creditRepo repository.CreditRepository) *FulfillmentService {
	return &FulfillmentService{
		orderRepo:  orderRepo,
		creditRepo: creditRepo,
	}
}

// orderStatusFromLines derives the order-level delivery state: no line
// delivered means not delivered, every line delivered means delivered,
// anything else is partial. Unchecked lines count as not delivered.
func orderStatusFromLines(lines []models.OrderLine) string {
	if len(lines) == 0 {
		return constants.DeliveryStatusNotDelivered
	}
	delivered := 0
	for _, line := range lines {
		if line.Delivered != nil && *line.Delivered {
			delivered++
		}
	}
	switch delivered {
	case 0:
		return constants.DeliveryStatusNotDelivered
	case len(lines):
		return constants.DeliveryStatusDelivered
	default:
		return constants.DeliveryStatusPartial
	}
}

// CheckLines applies a batch of line delivery checks to an order and
// recomputes the order state, atomically with the credit side effects
func (s *FulfillmentService) CheckLines(tenantID, orderID uint, checks []LineCheckInput, actingUserID uint) (*models.Order, error) {
	if len(checks) == 0 {
		return nil, ErrOrderInvalidLine
	}

	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.TenantID != tenantID {
			return ErrOrderNotFound
		}

		byProduct := make(map[uint]*models.OrderLine, len(order.Lines))
		for i := range order.Lines {
			byProduct[order.Lines[i].ProductID] = &order.Lines[i]
		}

		orderRepo := s.orderRepo.WithTx(tx)
		creditRepo := s.creditRepo.WithTx(tx)
		for _, check := range checks {
			line, ok := byProduct[check.ProductID]
			if !ok {
				return ErrOrderLineNotFound
			}

			wasDelivered := line.Delivered != nil && *line.Delivered
			neverChecked := line.Delivered == nil

			if !check.Delivered && (wasDelivered || neverChecked) {
				// Flip to not-delivered (or a first check landing
				// there): open a credit for the owed quantity unless
				// one is already open.
				if err := s.openCredit(creditRepo, order, line, check, actingUserID, now); err != nil {
					return err
				}
			}
			if check.Delivered && !wasDelivered {
				// Flip to delivered: the owed product is no longer
				// owed.
				if err := s.closeOpenCredit(creditRepo, order.ID, line.ProductID); err != nil {
					return err
				}
			}

			delivered := check.Delivered
			line.Delivered = &delivered
			line.CheckReason = check.Reason
			line.CheckNote = check.Note
			line.CheckedBy = &actingUserID
			line.CheckedAt = &now
			if err := orderRepo.UpdateLine(line); err != nil {
				return ErrFulfillmentFailed
			}
		}

		status := orderStatusFromLines(order.Lines)
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}
		if status == constants.DeliveryStatusDelivered {
			updates["delivered_at"] = now
		} else {
			updates["delivered_at"] = nil
		}
		if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
			return ErrFulfillmentFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *FulfillmentService) openCredit(creditRepo *repository.GormCreditRepository, order *models.Order, line *models.OrderLine, check LineCheckInput, actingUserID uint, now time.Time) error {
	existing, err := creditRepo.GetOpenByOrderAndProduct(order.ID, line.ProductID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	credit := &models.Credit{
		TenantID:    order.TenantID,
		ClientID:    order.ClientID,
		ProductID:   line.ProductID,
		OrderID:     order.ID,
		OrderLineID: line.ID,
		Quantity:    line.Quantity,
		Reason:      check.Reason,
		Note:        check.Note,
		CreatedBy:   actingUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := creditRepo.Create(credit); err != nil {
		return ErrFulfillmentFailed
	}
	return nil
}

func (s *FulfillmentService) closeOpenCredit(creditRepo *repository.GormCreditRepository, orderID, productID uint) error {
	existing, err := creditRepo.GetOpenByOrderAndProduct(orderID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := creditRepo.Delete(existing.ID); err != nil {
		return ErrFulfillmentFailed
	}
	return nil
}

// SetOrderDelivery sets the order-level delivery state directly,
// without touching the lines
func (s *FulfillmentService) SetOrderDelivery(tenantID, orderID uint, status string) (*models.Order, error) {
	switch status {
	case constants.DeliveryStatusNotDelivered, constants.DeliveryStatusPartial, constants.DeliveryStatusDelivered:
	default:
		return nil, ErrOrderInvalidStatus
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.TenantID != tenantID {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == constants.DeliveryStatusDelivered {
		updates["delivered_at"] = now
	} else {
		updates["delivered_at"] = nil
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	return s.orderRepo.GetByID(orderID)
}

// FulfillCredit marks an open credit as delivered, independent of the
// originating order line's state
func (s *FulfillmentService) FulfillCredit(tenantID, creditID, userID uint) (*models.Credit, error) {
	credit, err := s.creditRepo.GetByID(creditID)
	if err != nil {
		return nil, err
	}
	if credit == nil || credit.TenantID != tenantID {
		return nil, ErrCreditNotFound
	}
	if credit.Delivered {
		return nil, ErrCreditAlreadyDelivered
	}
	if err := s.creditRepo.MarkDelivered(credit.ID, userID, time.Now()); err != nil {
		return nil, ErrCreditUpdateFailed
	}
	return s.creditRepo.GetByID(credit.ID)
}

// ListCredits lists credits with pagination
func (s *FulfillmentService) ListCredits(filter repository.CreditListFilter) ([]models.Credit, int64, error) {
	return s.creditRepo.List(filter)
}
