package service

import (
	"errors"
	"testing"

	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupDebtServiceTest(t *testing.T) (*DebtService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "debt_service_test")
	clientRepo := repository.NewClientRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	return NewDebtService(clientRepo, paymentRepo), db
}

func TestDebtAddAndReduce(t *testing.T) {
	svc, db := setupDebtServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")

	if err := svc.AddDebt(client.ID, decimal.NewFromInt(50)); err != nil {
		t.Fatalf("add debt failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("debt = %s, want 50", clientDebt(t, db, client.ID))
	}

	if err := svc.ReduceDebt(client.ID, decimal.NewFromInt(30)); err != nil {
		t.Fatalf("reduce debt failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(20)) {
		t.Fatalf("debt = %s, want 20", clientDebt(t, db, client.ID))
	}

	// Over-reduction floors at zero, never negative.
	if err := svc.ReduceDebt(client.ID, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("reduce debt failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).IsZero() {
		t.Fatalf("debt = %s, want 0", clientDebt(t, db, client.ID))
	}
}

func TestDebtNonNegativeUnderInterleaving(t *testing.T) {
	svc, db := setupDebtServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")

	steps := []struct {
		add    bool
		amount int64
	}{
		{true, 10}, {false, 25}, {true, 5}, {false, 3},
		{false, 100}, {true, 7}, {false, 1}, {false, 50},
	}
	for i, step := range steps {
		var err error
		if step.add {
			err = svc.AddDebt(client.ID, decimal.NewFromInt(step.amount))
		} else {
			err = svc.ReduceDebt(client.ID, decimal.NewFromInt(step.amount))
		}
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if clientDebt(t, db, client.ID).LessThan(decimal.Zero) {
			t.Fatalf("step %d: debt went negative", i)
		}
	}
}

func TestValidatePayment(t *testing.T) {
	svc, db := setupDebtServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	if err := svc.AddDebt(client.ID, decimal.NewFromInt(20)); err != nil {
		t.Fatalf("add debt failed: %v", err)
	}

	cases := []struct {
		amount string
		want   bool
	}{
		{"0", false},
		{"-5", false},
		{"20", true},
		{"19.99", true},
		{"20.01", false},
	}
	for _, tc := range cases {
		ok, err := svc.ValidatePayment(client.ID, decimal.RequireFromString(tc.amount))
		if err != nil {
			t.Fatalf("validate %s failed: %v", tc.amount, err)
		}
		if ok != tc.want {
			t.Fatalf("validate %s = %v, want %v", tc.amount, ok, tc.want)
		}
	}
}

func TestPaymentLifecycle(t *testing.T) {
	svc, db := setupDebtServiceTest(t)
	client := seedClient(t, db, "Corner Shop", "0")
	if err := svc.AddDebt(client.ID, decimal.NewFromInt(50)); err != nil {
		t.Fatalf("add debt failed: %v", err)
	}

	payment, err := svc.CreatePayment(testTenantID, CreatePaymentInput{
		ClientID:  client.ID,
		Amount:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		Note:      "partial settlement",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(20)) {
		t.Fatalf("debt = %s, want 20", clientDebt(t, db, client.ID))
	}

	// 25 exceeds the remaining 20.
	if _, err := svc.CreatePayment(testTenantID, CreatePaymentInput{
		ClientID: client.ID,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromInt(25)),
	}); !errors.Is(err, ErrPaymentExceedsDebt) {
		t.Fatalf("err = %v, want ErrPaymentExceedsDebt", err)
	}

	if _, err := svc.CreatePayment(testTenantID, CreatePaymentInput{
		ClientID: client.ID,
		Amount:   models.NewMoneyFromDecimal(decimal.Zero),
	}); !errors.Is(err, ErrPaymentInvalidAmount) {
		t.Fatalf("err = %v, want ErrPaymentInvalidAmount", err)
	}

	// Deleting the payment restores the debt unconditionally.
	if err := svc.DeletePayment(testTenantID, payment.ID); err != nil {
		t.Fatalf("delete payment failed: %v", err)
	}
	if !clientDebt(t, db, client.ID).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("debt = %s, want 50 after restore", clientDebt(t, db, client.ID))
	}

	if err := svc.DeletePayment(testTenantID, payment.ID); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("err = %v, want ErrPaymentNotFound for re-delete", err)
	}
}
