package service

import (
	"time"

	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/pricing"
	"github.com/repartia/api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService assembles orders: per-line tier optimization, the three
// discount layers (special price, product discount, global client
// discount), payment allocations and the running-account debt
// adjustment, all in one transaction.
type OrderService struct {
	orderRepo   repository.OrderRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	specialRepo repository.SpecialPriceRepository
	creditRepo  repository.CreditRepository
	productSvc  *ProductService
	debtSvc     *DebtService
}

// OrderLineInput one requested order position
type OrderLineInput struct {
	ProductID uint
	Quantity  int
}

// AllocationInput how much of the order one payment method covers
type AllocationInput struct {
	Method string
	Amount models.Money
}

// CreateOrderInput order creation input
type CreateOrderInput struct {
	ClientID    uint
	CreatedBy   uint
	AssignedTo  *uint
	Lines       []OrderLineInput
	Allocations []AllocationInput
}

// UpdateOrderInput wholesale order update input: lines and allocations
// are replaced, prices recomputed
type UpdateOrderInput struct {
	Lines       []OrderLineInput
	Allocations []AllocationInput
}

// NewOrderService creates the order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	specialRepo repository.SpecialPriceRepository,
	creditRepo repository.CreditRepository,
	productSvc *ProductService,
	debtSvc *DebtService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		specialRepo: specialRepo,
		creditRepo:  creditRepo,
		productSvc:  productSvc,
		debtSvc:     debtSvc,
	}
}

// priceLines resolves each requested line into a priced OrderLine:
// lapsed discounts are persisted away, special prices replace the unit
// price before tier optimization, and an active product discount
// reduces the optimized subtotal. Returns the lines and their sum.
func (s *OrderService) priceLines(tx *gorm.DB, tenantID uint, clientID uint, inputs []OrderLineInput, now time.Time) ([]models.OrderLine, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, ErrOrderNoLines
	}

	seen := make(map[uint]struct{}, len(inputs))
	lines := make([]models.OrderLine, 0, len(inputs))
	subtotal := decimal.Zero

	for _, input := range inputs {
		if input.ProductID == 0 || input.Quantity <= 0 {
			return nil, decimal.Zero, ErrOrderInvalidLine
		}
		if _, dup := seen[input.ProductID]; dup {
			return nil, decimal.Zero, ErrOrderInvalidLine
		}
		seen[input.ProductID] = struct{}{}

		product, err := s.productRepo.WithTx(tx).GetByID(input.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil || product.TenantID != tenantID {
			return nil, decimal.Zero, ErrProductNotFound
		}
		if err := s.productSvc.NormalizeDiscount(tx, product, now); err != nil {
			return nil, decimal.Zero, err
		}

		unitPrice := product.BasePrice.Decimal
		special, err := s.specialRepo.WithTx(tx).Get(clientID, input.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if special != nil {
			unitPrice = special.UnitPrice.Decimal
		}

		quote, err := pricing.Optimize(unitPrice, buildPricingTiers(product.Tiers), input.Quantity)
		if err != nil {
			return nil, decimal.Zero, ErrOrderInvalidLine
		}

		final := quote.Total.Round(2)
		if product.DiscountActiveAt(now) {
			final = pricing.ApplyPercentDiscount(quote.Total, product.DiscountPercent)
		}

		lines = append(lines, models.OrderLine{
			ProductID:  input.ProductID,
			Quantity:   input.Quantity,
			FinalPrice: models.NewMoneyFromDecimal(final),
		})
		subtotal = subtotal.Add(final)
	}

	return lines, subtotal.Round(2), nil
}

// applyGlobalDiscount reduces the subtotal by the client's global
// discount and redistributes the reduction onto the lines
// proportionally. Each line is rounded to 2 decimals; the last line
// absorbs the rounding residue so the line sum equals the total
// exactly.
func applyGlobalDiscount(lines []models.OrderLine, subtotal decimal.Decimal, discountPercent decimal.Decimal) (discountAmount, total decimal.Decimal) {
	if discountPercent.LessThanOrEqual(decimal.Zero) || subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, subtotal
	}
	discountAmount = pricing.PercentAmount(subtotal, discountPercent)
	total = subtotal.Sub(discountAmount).Round(2)

	distributed := decimal.Zero
	for i := range lines {
		if i == len(lines)-1 {
			lines[i].FinalPrice = models.NewMoneyFromDecimal(total.Sub(distributed).Round(2))
			break
		}
		share := lines[i].FinalPrice.Decimal.Mul(total).Div(subtotal).Round(2)
		lines[i].FinalPrice = models.NewMoneyFromDecimal(share)
		distributed = distributed.Add(share)
	}
	return discountAmount, total
}

func buildAllocations(inputs []AllocationInput) ([]models.PaymentAllocation, decimal.Decimal, error) {
	allocations := make([]models.PaymentAllocation, 0, len(inputs))
	accountAmount := decimal.Zero
	for _, input := range inputs {
		switch input.Method {
		case constants.PaymentMethodCash, constants.PaymentMethodTransfer, constants.PaymentMethodAccount:
		default:
			return nil, decimal.Zero, ErrAllocationInvalid
		}
		amount := input.Amount.Decimal.Round(2)
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, decimal.Zero, ErrAllocationInvalid
		}
		if input.Method == constants.PaymentMethodAccount {
			accountAmount = accountAmount.Add(amount)
		}
		allocations = append(allocations, models.PaymentAllocation{
			Method: input.Method,
			Amount: models.NewMoneyFromDecimal(amount),
		})
	}
	return allocations, accountAmount.Round(2), nil
}

func accountAllocationAmount(allocations []models.PaymentAllocation) decimal.Decimal {
	sum := decimal.Zero
	for _, allocation := range allocations {
		if allocation.Method == constants.PaymentMethodAccount {
			sum = sum.Add(allocation.Amount.Decimal)
		}
	}
	return sum.Round(2)
}

// warnAllocationMismatch logs when the allocations do not cover the
// order total. The sum is deliberately not enforced; callers may
// under- or over-allocate and the stored order keeps both numbers.
func warnAllocationMismatch(orderID uint, total decimal.Decimal, allocations []models.PaymentAllocation) {
	sum := decimal.Zero
	for _, allocation := range allocations {
		sum = sum.Add(allocation.Amount.Decimal)
	}
	if sum.Round(2).Equal(total.Round(2)) {
		return
	}
	logger.Warnw("order_allocations_total_mismatch",
		"order_id", orderID,
		"total_amount", total.StringFixed(2),
		"allocated_amount", sum.StringFixed(2),
	)
}

// CreateOrder prices and persists an order with its lines and payment
// allocations; an account-method allocation raises the client's debt
// within the same transaction
func (s *OrderService) CreateOrder(tenantID uint, input CreateOrderInput) (*models.Order, error) {
	allocations, accountAmount, err := buildAllocations(input.Allocations)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var created *models.Order
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		client, err := s.clientRepo.WithTx(tx).GetByID(input.ClientID)
		if err != nil {
			return err
		}
		if client == nil || client.TenantID != tenantID {
			return ErrClientNotFound
		}

		lines, subtotal, err := s.priceLines(tx, tenantID, client.ID, input.Lines, now)
		if err != nil {
			return err
		}
		discountAmount, total := applyGlobalDiscount(lines, subtotal, client.DiscountPercent)
		if total.LessThanOrEqual(decimal.Zero) {
			return ErrOrderInvalidTotal
		}

		order := &models.Order{
			TenantID:       tenantID,
			ClientID:       client.ID,
			CreatedBy:      input.CreatedBy,
			AssignedTo:     input.AssignedTo,
			Status:         constants.DeliveryStatusNotDelivered,
			OriginalAmount: models.NewMoneyFromDecimal(subtotal),
			DiscountAmount: models.NewMoneyFromDecimal(discountAmount),
			TotalAmount:    models.NewMoneyFromDecimal(total),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.orderRepo.WithTx(tx).Create(order, lines, allocations); err != nil {
			return ErrOrderCreateFailed
		}

		if accountAmount.GreaterThan(decimal.Zero) {
			if err := s.debtSvc.AddDebtTx(tx, client.ID, accountAmount); err != nil {
				return err
			}
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	warnAllocationMismatch(created.ID, created.TotalAmount.Decimal, created.Allocations)
	return created, nil
}

// UpdateOrder re-prices an order from scratch: lines and allocations
// are replaced wholesale, the running-account difference is settled
// against the client's debt, open credits of the old lines are
// removed, and the delivery state resets
func (s *OrderService) UpdateOrder(tenantID, orderID uint, input UpdateOrderInput) (*models.Order, error) {
	allocations, newAccountAmount, err := buildAllocations(input.Allocations)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.TenantID != tenantID {
			return ErrOrderNotFound
		}
		client, err := s.clientRepo.WithTx(tx).GetByID(order.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return ErrClientNotFound
		}

		lines, subtotal, err := s.priceLines(tx, tenantID, client.ID, input.Lines, now)
		if err != nil {
			return err
		}
		discountAmount, total := applyGlobalDiscount(lines, subtotal, client.DiscountPercent)
		if total.LessThanOrEqual(decimal.Zero) {
			return ErrOrderInvalidTotal
		}

		priorAccountAmount := accountAllocationAmount(order.Allocations)

		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.ReplaceLines(order.ID, lines); err != nil {
			return ErrOrderUpdateFailed
		}
		if err := orderRepo.ReplaceAllocations(order.ID, allocations); err != nil {
			return ErrOrderUpdateFailed
		}

		// Replaced lines lose their delivery checks; credits tied to
		// the old lines go with them.
		creditRepo := s.creditRepo.WithTx(tx)
		openCredits, err := creditRepo.ListOpenByOrder(order.ID)
		if err != nil {
			return err
		}
		for _, credit := range openCredits {
			if err := creditRepo.Delete(credit.ID); err != nil {
				return ErrOrderUpdateFailed
			}
		}

		if err := orderRepo.UpdateFields(order.ID, map[string]interface{}{
			"original_amount": models.NewMoneyFromDecimal(subtotal),
			"discount_amount": models.NewMoneyFromDecimal(discountAmount),
			"total_amount":    models.NewMoneyFromDecimal(total),
			"status":          constants.DeliveryStatusNotDelivered,
			"delivered_at":    nil,
			"updated_at":      now,
		}); err != nil {
			return ErrOrderUpdateFailed
		}

		diff := newAccountAmount.Sub(priorAccountAmount).Round(2)
		switch {
		case diff.GreaterThan(decimal.Zero):
			if err := s.debtSvc.AddDebtTx(tx, client.ID, diff); err != nil {
				return err
			}
		case diff.LessThan(decimal.Zero):
			if err := s.debtSvc.ReduceDebtTx(tx, client.ID, diff.Neg()); err != nil {
				return err
			}
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
	warnAllocationMismatch(order.ID, order.TotalAmount.Decimal, order.Allocations)
	return order, nil
}

// DeleteOrder removes an order: open credits and allocations first,
// the running-account portion reversed from the client's debt, then
// the lines and the order itself
func (s *OrderService) DeleteOrder(tenantID, orderID uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil || order.TenantID != tenantID {
			return ErrOrderNotFound
		}

		creditRepo := s.creditRepo.WithTx(tx)
		openCredits, err := creditRepo.ListOpenByOrder(order.ID)
		if err != nil {
			return err
		}
		for _, credit := range openCredits {
			if err := creditRepo.Delete(credit.ID); err != nil {
				return ErrOrderDeleteFailed
			}
		}

		accountAmount := accountAllocationAmount(order.Allocations)
		if accountAmount.GreaterThan(decimal.Zero) {
			if err := s.debtSvc.ReduceDebtTx(tx, order.ClientID, accountAmount); err != nil {
				return err
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.PaymentAllocation{}).Error; err != nil {
			return ErrOrderDeleteFailed
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
			return ErrOrderDeleteFailed
		}
		if err := s.orderRepo.WithTx(tx).Delete(order.ID); err != nil {
			return ErrOrderDeleteFailed
		}
		return nil
	})
}

// GetOrder gets a tenant's order with lines and allocations
func (s *OrderService) GetOrder(tenantID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.TenantID != tenantID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders lists orders with pagination
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}
