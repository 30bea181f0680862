package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"gorm.io/gorm"
)

func setupWorkListServiceTest(t *testing.T) (*WorkListService, *OrderService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "worklist_service_test")
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	specialRepo := repository.NewSpecialPriceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	productSvc := NewProductService(productRepo, specialRepo)
	debtSvc := NewDebtService(clientRepo, paymentRepo)
	orderSvc := NewOrderService(orderRepo, clientRepo, productRepo, specialRepo, creditRepo, productSvc, debtSvc)
	return NewWorkListService(orderRepo, routeRepo, clientRepo, userRepo), orderSvc, db
}

func seedRoute(t *testing.T, db *gorm.DB, sellerID, clientID uint, weekday, visitOrder int) *models.ScheduledRoute {
	t.Helper()
	route := &models.ScheduledRoute{
		TenantID:   testTenantID,
		SellerID:   sellerID,
		ClientID:   clientID,
		Weekday:    weekday,
		VisitOrder: visitOrder,
		IsActive:   true,
	}
	if err := db.Create(route).Error; err != nil {
		t.Fatalf("create route failed: %v", err)
	}
	return route
}

func seedAssignedOrder(t *testing.T, orderSvc *OrderService, db *gorm.DB, clientID, userID uint) *models.Order {
	t.Helper()
	product := seedProduct(t, db, "worklist soda", "10", nil)
	order, err := orderSvc.CreateOrder(testTenantID, CreateOrderInput{
		ClientID:  clientID,
		CreatedBy: 1,
		Lines:     []OrderLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("assigned_to", userID).Error; err != nil {
		t.Fatalf("assign order failed: %v", err)
	}
	return order
}

func TestDailyListMergedDedupsRouteClients(t *testing.T) {
	svc, orderSvc, db := setupWorkListServiceTest(t)
	user := seedUser(t, db, "seller_driver", true, true, false)
	routed := seedClient(t, db, "Routed Shop", "0")
	ordered := seedClient(t, db, "Ordered Shop", "0")

	today := time.Now()
	// Two routes today; one client also has an assigned order.
	seedRoute(t, db, user.ID, routed.ID, int(today.Weekday()), 1)
	seedRoute(t, db, user.ID, ordered.ID, int(today.Weekday()), 2)
	order := seedAssignedOrder(t, orderSvc, db, ordered.ID, user.ID)

	entries, err := svc.DailyList(context.Background(), testTenantID, user.ID, today)
	if err != nil {
		t.Fatalf("daily list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (order + uncovered route)", len(entries))
	}

	byClient := make(map[uint]WorkListEntry, len(entries))
	for _, entry := range entries {
		byClient[entry.ClientID] = entry
	}
	got, ok := byClient[ordered.ID]
	if !ok || got.Source != constants.WorkListSourceOrder || got.OrderID != order.ID {
		t.Fatalf("covered client entry = %+v, want the order entry", got)
	}
	if got.TotalAmount == nil {
		t.Fatalf("order entry must carry a total")
	}
	got, ok = byClient[routed.ID]
	if !ok || got.Source != constants.WorkListSourceRoute || got.OrderID != 0 {
		t.Fatalf("routed client entry = %+v, want a pending placeholder", got)
	}
	if got.Status != constants.WorkListStatusPending || got.VisitOrder != 1 {
		t.Fatalf("route placeholder = %+v", got)
	}
}

func TestDailyListSellerOnlyGetsRoutes(t *testing.T) {
	svc, orderSvc, db := setupWorkListServiceTest(t)
	seller := seedUser(t, db, "seller", true, false, false)
	other := seedUser(t, db, "other_seller", true, false, false)
	first := seedClient(t, db, "First Stop", "0")
	second := seedClient(t, db, "Second Stop", "0")

	today := time.Now()
	seedRoute(t, db, seller.ID, first.ID, int(today.Weekday()), 1)
	seedRoute(t, db, seller.ID, second.ID, int(today.Weekday()), 2)
	// Someone else's route and another weekday never leak in.
	seedRoute(t, db, other.ID, first.ID, int(today.Weekday()), 1)
	seedRoute(t, db, seller.ID, second.ID, int(today.AddDate(0, 0, 1).Weekday()), 1)
	// The seller has an assigned order too, but a seller-only list
	// carries routes alone.
	seedAssignedOrder(t, orderSvc, db, first.ID, seller.ID)

	entries, err := svc.DailyList(context.Background(), testTenantID, seller.ID, today)
	if err != nil {
		t.Fatalf("daily list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 routes", len(entries))
	}
	for i, entry := range entries {
		if entry.Source != constants.WorkListSourceRoute {
			t.Fatalf("entry %d source = %s, want route", i, entry.Source)
		}
		if entry.VisitOrder != i+1 {
			t.Fatalf("entry %d visit_order = %d, want %d", i, entry.VisitOrder, i+1)
		}
	}
}

func TestDailyListDelivererSortedByClientName(t *testing.T) {
	svc, orderSvc, db := setupWorkListServiceTest(t)
	courier := seedUser(t, db, "courier", false, true, false)
	zebra := seedClient(t, db, "Zebra Mart", "0")
	alpha := seedClient(t, db, "Alpha Mart", "0")

	seedAssignedOrder(t, orderSvc, db, zebra.ID, courier.ID)
	seedAssignedOrder(t, orderSvc, db, alpha.ID, courier.ID)
	// Routes never show on a deliverer-only list.
	seedRoute(t, db, courier.ID, zebra.ID, int(time.Now().Weekday()), 1)

	entries, err := svc.DailyList(context.Background(), testTenantID, courier.ID, time.Now())
	if err != nil {
		t.Fatalf("daily list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 orders", len(entries))
	}
	if entries[0].ClientName != "Alpha Mart" || entries[1].ClientName != "Zebra Mart" {
		t.Fatalf("order = [%s, %s], want alphabetical", entries[0].ClientName, entries[1].ClientName)
	}
	for i, entry := range entries {
		if entry.Source != constants.WorkListSourceOrder {
			t.Fatalf("entry %d source = %s, want order", i, entry.Source)
		}
	}
}

func TestDailyListNoRoleFlagsIsEmpty(t *testing.T) {
	svc, _, db := setupWorkListServiceTest(t)
	user := seedUser(t, db, "back_office", false, false, false)

	entries, err := svc.DailyList(context.Background(), testTenantID, user.ID, time.Now())
	if err != nil {
		t.Fatalf("daily list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want none", len(entries))
	}
}

func TestDailyListUnknownUser(t *testing.T) {
	svc, _, _ := setupWorkListServiceTest(t)

	if _, err := svc.DailyList(context.Background(), testTenantID, 9999, time.Now()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
