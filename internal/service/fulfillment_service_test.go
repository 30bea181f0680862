package service

import (
	"errors"
	"testing"

	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"gorm.io/gorm"
)

func setupFulfillmentServiceTest(t *testing.T) (*FulfillmentService, *OrderService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "fulfillment_service_test")
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	specialRepo := repository.NewSpecialPriceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	productSvc := NewProductService(productRepo, specialRepo)
	debtSvc := NewDebtService(clientRepo, paymentRepo)
	orderSvc := NewOrderService(orderRepo, clientRepo, productRepo, specialRepo, creditRepo, productSvc, debtSvc)
	return NewFulfillmentService(orderRepo, creditRepo), orderSvc, db
}

func seedTwoLineOrder(t *testing.T, orderSvc *OrderService, db *gorm.DB) (*models.Order, *models.Product, *models.Product) {
	t.Helper()
	client := seedClient(t, db, "Corner Shop", "0")
	first := seedProduct(t, db, "Soda", "10", nil)
	second := seedProduct(t, db, "Beer", "15", nil)
	order, err := orderSvc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines: []OrderLineInput{
			{ProductID: first.ID, Quantity: 5},
			{ProductID: second.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order, first, second
}

func openCreditCount(t *testing.T, db *gorm.DB, orderID, productID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Credit{}).
		Where("order_id = ? AND product_id = ? AND delivered = ?", orderID, productID, false).
		Count(&count).Error; err != nil {
		t.Fatalf("count credits failed: %v", err)
	}
	return count
}

func TestCheckLinesFirstCheckNotDeliveredCreatesCredit(t *testing.T) {
	svc, orderSvc, db := setupFulfillmentServiceTest(t)
	order, first, _ := seedTwoLineOrder(t, orderSvc, db)

	updated, err := svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
		{ProductID: first.ID, Delivered: false, Reason: "out of stock"},
	}, 7)
	if err != nil {
		t.Fatalf("check lines failed: %v", err)
	}
	if got := openCreditCount(t, db, order.ID, first.ID); got != 1 {
		t.Fatalf("open credits = %d, want 1", got)
	}

	var credit models.Credit
	if err := db.Where("order_id = ? AND product_id = ?", order.ID, first.ID).First(&credit).Error; err != nil {
		t.Fatalf("load credit failed: %v", err)
	}
	if credit.Quantity != 5 {
		t.Fatalf("credit quantity = %d, want the line quantity 5", credit.Quantity)
	}
	if credit.Reason != "out of stock" || credit.CreatedBy != 7 {
		t.Fatalf("credit metadata = %+v", credit)
	}
	if updated.Status != constants.DeliveryStatusNotDelivered {
		t.Fatalf("status = %s, want not_delivered", updated.Status)
	}
}

func TestCheckLinesToggleKeepsAtMostOneOpenCredit(t *testing.T) {
	svc, orderSvc, db := setupFulfillmentServiceTest(t)
	order, first, _ := seedTwoLineOrder(t, orderSvc, db)

	toggles := []bool{false, false, true, false, true, true, false}
	for i, delivered := range toggles {
		if _, err := svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
			{ProductID: first.ID, Delivered: delivered},
		}, 7); err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		open := openCreditCount(t, db, order.ID, first.ID)
		want := int64(0)
		if !delivered {
			want = 1
		}
		if open != want {
			t.Fatalf("toggle %d (delivered=%v): open credits = %d, want %d", i, delivered, open, want)
		}
	}
}

func TestCheckLinesRecomputesOrderStatus(t *testing.T) {
	svc, orderSvc, db := setupFulfillmentServiceTest(t)
	order, first, second := seedTwoLineOrder(t, orderSvc, db)

	// One of two delivered: partial.
	updated, err := svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
		{ProductID: first.ID, Delivered: true},
	}, 7)
	if err != nil {
		t.Fatalf("check lines failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusPartial {
		t.Fatalf("status = %s, want partial", updated.Status)
	}
	if updated.DeliveredAt != nil {
		t.Fatalf("delivered_at must stay unset while partial")
	}

	// Both delivered: delivered, with timestamp.
	updated, err = svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
		{ProductID: second.ID, Delivered: true},
	}, 7)
	if err != nil {
		t.Fatalf("check lines failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusDelivered {
		t.Fatalf("status = %s, want delivered", updated.Status)
	}
	if updated.DeliveredAt == nil {
		t.Fatalf("delivered_at must be set when fully delivered")
	}

	// Back to none delivered: not_delivered again, credit reopened.
	updated, err = svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
		{ProductID: first.ID, Delivered: false},
		{ProductID: second.ID, Delivered: false},
	}, 7)
	if err != nil {
		t.Fatalf("check lines failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusNotDelivered {
		t.Fatalf("status = %s, want not_delivered", updated.Status)
	}
	if got := openCreditCount(t, db, order.ID, first.ID); got != 1 {
		t.Fatalf("open credits = %d, want 1", got)
	}
}

func TestCheckLinesRejectsUnknownProduct(t *testing.T) {
	svc, orderSvc, db := setupFulfillmentServiceTest(t)
	order, _, _ := seedTwoLineOrder(t, orderSvc, db)

	if _, err := svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
		{ProductID: 9999, Delivered: true},
	}, 7); !errors.Is(err, ErrOrderLineNotFound) {
		t.Fatalf("err = %v, want ErrOrderLineNotFound", err)
	}
	if _, err := svc.CheckLines(testTenantID, 9999, []LineCheckInput{
		{ProductID: 1, Delivered: true},
	}, 7); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestSetOrderDelivery(t *testing.T) {
	svc, orderSvc, db := setupFulfillmentServiceTest(t)
	order, _, _ := seedTwoLineOrder(t, orderSvc, db)

	updated, err := svc.SetOrderDelivery(testTenantID, order.ID, constants.DeliveryStatusDelivered)
	if err != nil {
		t.Fatalf("set delivery failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusDelivered || updated.DeliveredAt == nil {
		t.Fatalf("order = %+v, want delivered with timestamp", updated)
	}

	if _, err := svc.SetOrderDelivery(testTenantID, order.ID, "shipped"); !errors.Is(err, ErrOrderInvalidStatus) {
		t.Fatalf("err = %v, want ErrOrderInvalidStatus", err)
	}
}

func TestFulfillCredit(t *testing.T) {
	svc, orderSvc, db := setupFulfillmentServiceTest(t)
	order, first, _ := seedTwoLineOrder(t, orderSvc, db)

	if _, err := svc.CheckLines(testTenantID, order.ID, []LineCheckInput{
		{ProductID: first.ID, Delivered: false, Reason: "truck full"},
	}, 7); err != nil {
		t.Fatalf("check lines failed: %v", err)
	}
	var credit models.Credit
	if err := db.Where("order_id = ? AND product_id = ?", order.ID, first.ID).First(&credit).Error; err != nil {
		t.Fatalf("load credit failed: %v", err)
	}

	fulfilled, err := svc.FulfillCredit(testTenantID, credit.ID, 9)
	if err != nil {
		t.Fatalf("fulfill credit failed: %v", err)
	}
	if !fulfilled.Delivered || fulfilled.DeliveredAt == nil || fulfilled.DeliveredBy == nil || *fulfilled.DeliveredBy != 9 {
		t.Fatalf("credit = %+v, want delivered by user 9", fulfilled)
	}

	// Fulfilling the credit does not touch the order line.
	reloaded, err := orderSvc.GetOrder(testTenantID, order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	for _, line := range reloaded.Lines {
		if line.ProductID == first.ID && line.Delivered != nil && *line.Delivered {
			t.Fatalf("order line must stay not-delivered")
		}
	}

	if _, err := svc.FulfillCredit(testTenantID, credit.ID, 9); !errors.Is(err, ErrCreditAlreadyDelivered) {
		t.Fatalf("err = %v, want ErrCreditAlreadyDelivered", err)
	}
}
