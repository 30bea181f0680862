package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testTenantID = uint(1)

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Client{},
		&models.Product{},
		&models.PackTier{},
		&models.SpecialPrice{},
		&models.Order{},
		&models.OrderLine{},
		&models.PaymentAllocation{},
		&models.Payment{},
		&models.Credit{},
		&models.ScheduledRoute{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "order_service_test")
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	specialRepo := repository.NewSpecialPriceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	productSvc := NewProductService(productRepo, specialRepo)
	debtSvc := NewDebtService(clientRepo, paymentRepo)
	return NewOrderService(orderRepo, clientRepo, productRepo, specialRepo, creditRepo, productSvc, debtSvc), db
}

func seedClient(t *testing.T, db *gorm.DB, name string, discountPercent string) *models.Client {
	t.Helper()
	client := &models.Client{
		TenantID:        testTenantID,
		Name:            name,
		Debt:            models.NewMoneyFromDecimal(decimal.Zero),
		DiscountPercent: decimal.RequireFromString(discountPercent),
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	return client
}

func seedProduct(t *testing.T, db *gorm.DB, name string, basePrice string, tiers map[int]string) *models.Product {
	t.Helper()
	product := &models.Product{
		TenantID:  testTenantID,
		Name:      name,
		BasePrice: models.NewMoneyFromDecimal(decimal.RequireFromString(basePrice)),
		IsActive:  true,
	}
	for quantity, total := range tiers {
		product.Tiers = append(product.Tiers, models.PackTier{
			Quantity:   quantity,
			TotalPrice: models.NewMoneyFromDecimal(decimal.RequireFromString(total)),
		})
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func clientDebt(t *testing.T, db *gorm.DB, clientID uint) decimal.Decimal {
	t.Helper()
	var client models.Client
	if err := db.First(&client, clientID).Error; err != nil {
		t.Fatalf("reload client failed: %v", err)
	}
	return client.Debt.Decimal
}

func TestCreateOrderTierSplit(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "10", map[int]string{3: "25"})

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 4}},
		Allocations: []AllocationInput{
			{Method: constants.PaymentMethodCash, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(35))},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 4 units = one 3-pack (25) + one unit (10).
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("total = %s, want 35", order.TotalAmount.Decimal)
	}
	if len(order.Lines) != 1 || !order.Lines[0].FinalPrice.Decimal.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("line price = %+v, want 35", order.Lines)
	}
	if order.Status != constants.DeliveryStatusNotDelivered {
		t.Fatalf("status = %s, want not_delivered", order.Status)
	}
	if !clientDebt(t, db, client.ID).IsZero() {
		t.Fatalf("cash order must not change debt")
	}
}

func TestCreateOrderProductDiscount(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "10", map[int]string{3: "25"})
	if err := db.Model(product).Updates(map[string]interface{}{
		"discount_percent":    20,
		"discount_indefinite": true,
	}).Error; err != nil {
		t.Fatalf("set discount failed: %v", err)
	}

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// 3-pack 25, 20% off = 20.
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("total = %s, want 20", order.TotalAmount.Decimal)
	}
}

func TestCreateOrderGlobalDiscountRedistribution(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "10")
	cheap := seedProduct(t, db, "Cheap", "20", nil)
	dear := seedProduct(t, db, "Dear", "80", nil)

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines: []OrderLineInput{
			{ProductID: cheap.ID, Quantity: 1},
			{ProductID: dear.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.OriginalAmount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("subtotal = %s, want 100", order.OriginalAmount.Decimal)
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("total = %s, want 90", order.TotalAmount.Decimal)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(order.Lines))
	}
	var prices []string
	sum := decimal.Zero
	for _, line := range order.Lines {
		prices = append(prices, line.FinalPrice.Decimal.String())
		sum = sum.Add(line.FinalPrice.Decimal)
	}
	if !sum.Equal(order.TotalAmount.Decimal) {
		t.Fatalf("line sum %s != total %s (lines %v)", sum, order.TotalAmount.Decimal, prices)
	}
	if !order.Lines[0].FinalPrice.Decimal.Equal(decimal.NewFromInt(18)) ||
		!order.Lines[1].FinalPrice.Decimal.Equal(decimal.NewFromInt(72)) {
		t.Fatalf("lines = %v, want [18 72]", prices)
	}
}

func TestCreateOrderSpecialPrice(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "10", nil)
	special := &models.SpecialPrice{
		TenantID:  testTenantID,
		ClientID:  client.ID,
		ProductID: product.ID,
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
	}
	if err := db.Create(special).Error; err != nil {
		t.Fatalf("create special price failed: %v", err)
	}

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("total = %s, want 16 (2 × special 8)", order.TotalAmount.Decimal)
	}
}

func TestCreateOrderLazyDiscountExpiry(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "10", map[int]string{3: "25"})
	yesterday := time.Now().Add(-24 * time.Hour)
	if err := db.Model(product).Updates(map[string]interface{}{
		"discount_percent":    20,
		"discount_indefinite": false,
		"discount_expires_at": yesterday,
	}).Error; err != nil {
		t.Fatalf("set discount failed: %v", err)
	}

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	// Lapsed discount must not apply.
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("total = %s, want 25", order.TotalAmount.Decimal)
	}

	// First evaluation persists the reset.
	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if !reloaded.DiscountPercent.IsZero() {
		t.Fatalf("discount percent = %s, want 0 after lazy expiry", reloaded.DiscountPercent)
	}
	if reloaded.DiscountExpiresAt != nil {
		t.Fatalf("discount expiry must be cleared, got %v", reloaded.DiscountExpiresAt)
	}

	second, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if !second.TotalAmount.Decimal.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("second total = %s, want 25", second.TotalAmount.Decimal)
	}
}

func TestCreateOrderAccountAllocationRaisesDebt(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "50", nil)

	_, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
		Allocations: []AllocationInput{
			{Method: constants.PaymentMethodAccount, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(50))},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("debt = %s, want 50", clientDebt(t, db, client.ID))
	}
}

func TestUpdateOrderReconcilesAccountAllocation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "50", nil)

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
		Allocations: []AllocationInput{
			{Method: constants.PaymentMethodAccount, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(50))},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// Shrink the running-account portion: 50 → 30 releases 20 of debt.
	updated, err := svc.UpdateOrder(testTenantID, order.ID, UpdateOrderInput{
		Lines: []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
		Allocations: []AllocationInput{
			{Method: constants.PaymentMethodAccount, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(30))},
			{Method: constants.PaymentMethodCash, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(20))},
		},
	})
	if err != nil {
		t.Fatalf("update order failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(30)) {
		t.Fatalf("debt = %s, want 30", clientDebt(t, db, client.ID))
	}
	if updated.Status != constants.DeliveryStatusNotDelivered {
		t.Fatalf("status = %s, want not_delivered after update", updated.Status)
	}

	// Grow it again: 30 → 80 adds 50.
	if _, err := svc.UpdateOrder(testTenantID, order.ID, UpdateOrderInput{
		Lines: []OrderLineInput{{ProductID: product.ID, Quantity: 2}},
		Allocations: []AllocationInput{
			{Method: constants.PaymentMethodAccount, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(80))},
		},
	}); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(80)) {
		t.Fatalf("debt = %s, want 80", clientDebt(t, db, client.ID))
	}
}

func TestDeleteOrderReversesAccountAllocation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "50", nil)

	order, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
		Allocations: []AllocationInput{
			{Method: constants.PaymentMethodAccount, Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(50))},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := svc.DeleteOrder(testTenantID, order.ID); err != nil {
		t.Fatalf("delete order failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).IsZero() {
		t.Fatalf("debt = %s, want 0 after delete", clientDebt(t, db, client.ID))
	}
	if _, err := svc.GetOrder(testTenantID, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	product := seedProduct(t, db, "Soda", "10", nil)

	if _, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
	}); !errors.Is(err, ErrOrderNoLines) {
		t.Fatalf("err = %v, want ErrOrderNoLines", err)
	}

	if _, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 0}},
	}); !errors.Is(err, ErrOrderInvalidLine) {
		t.Fatalf("err = %v, want ErrOrderInvalidLine", err)
	}

	if _, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  client.ID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: 9999, Quantity: 1}},
	}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}

	if _, err := svc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  9999,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
	}); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("err = %v, want ErrClientNotFound", err)
	}
}

func TestApplyGlobalDiscountSumsToTotal(t *testing.T) {
	cases := []struct {
		lines   []string
		percent string
	}{
		{[]string{"20", "80"}, "10"},
		{[]string{"33.33", "33.33", "33.34"}, "7.5"},
		{[]string{"0.01", "99.99"}, "50"},
		{[]string{"19.99", "0.03", "45.67"}, "12.34"},
		{[]string{"10"}, "100"},
	}
	for _, tc := range cases {
		lines := make([]models.OrderLine, 0, len(tc.lines))
		subtotal := decimal.Zero
		for _, raw := range tc.lines {
			price := decimal.RequireFromString(raw)
			lines = append(lines, models.OrderLine{FinalPrice: models.NewMoneyFromDecimal(price)})
			subtotal = subtotal.Add(price)
		}
		discount, total := applyGlobalDiscount(lines, subtotal, decimal.RequireFromString(tc.percent))
		if !subtotal.Sub(discount).Round(2).Equal(total) {
			t.Fatalf("%v @ %s%%: subtotal-discount != total", tc.lines, tc.percent)
		}
		sum := decimal.Zero
		for _, line := range lines {
			sum = sum.Add(line.FinalPrice.Decimal)
		}
		if !sum.Equal(total) {
			t.Fatalf("%v @ %s%%: line sum %s != total %s", tc.lines, tc.percent, sum, total)
		}
	}
}
