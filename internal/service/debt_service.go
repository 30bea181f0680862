package service

import (
	"time"

	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DebtService running-account ledger: a client's debt grows with
// account-method order allocations and shrinks with payments. All
// mutations lock the client row.
type DebtService struct {
	clientRepo  repository.ClientRepository
	paymentRepo repository.PaymentRepository
}

// CreatePaymentInput payment creation input
type CreatePaymentInput struct {
	ClientID  uint
	Amount    models.Money
	Note      string
	CreatedBy uint
}

// NewDebtService creates the debt service
func NewDebtService(clientRepo repository.ClientRepository, paymentRepo repository.PaymentRepository) *DebtService {
	return &DebtService{
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
	}
}

// AddDebtTx increases a client's debt inside an existing transaction
func (s *DebtService) AddDebtTx(tx *gorm.DB, clientID uint, amount decimal.Decimal) error {
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	client, err := s.clientRepo.WithTx(tx).GetByIDForUpdate(clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}
	client.Debt = models.NewMoneyFromDecimal(client.Debt.Decimal.Add(amount).Round(2))
	if err := s.clientRepo.WithTx(tx).Update(client); err != nil {
		return ErrDebtUpdateFailed
	}
	return nil
}

// ReduceDebtTx decreases a client's debt inside an existing
// transaction, flooring at zero
func (s *DebtService) ReduceDebtTx(tx *gorm.DB, clientID uint, amount decimal.Decimal) error {
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	client, err := s.clientRepo.WithTx(tx).GetByIDForUpdate(clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}
	next := client.Debt.Decimal.Sub(amount).Round(2)
	if next.LessThan(decimal.Zero) {
		next = decimal.Zero
	}
	client.Debt = models.NewMoneyFromDecimal(next)
	if err := s.clientRepo.WithTx(tx).Update(client); err != nil {
		return ErrDebtUpdateFailed
	}
	return nil
}

// AddDebt increases a client's debt
func (s *DebtService) AddDebt(clientID uint, amount decimal.Decimal) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.AddDebtTx(tx, clientID, amount)
	})
}

// ReduceDebt decreases a client's debt, flooring at zero
func (s *DebtService) ReduceDebt(clientID uint, amount decimal.Decimal) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.ReduceDebtTx(tx, clientID, amount)
	})
}

// ValidatePayment reports whether amount is a valid payment for the
// client: positive and no greater than the current debt
func (s *DebtService) ValidatePayment(clientID uint, amount decimal.Decimal) (bool, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return false, nil
	}
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return false, err
	}
	if client == nil {
		return false, ErrClientNotFound
	}
	return amount.Round(2).LessThanOrEqual(client.Debt.Decimal.Round(2)), nil
}

// CreatePayment validates and persists a payment and reduces the
// client's debt in one transaction
func (s *DebtService) CreatePayment(tenantID uint, input CreatePaymentInput) (*models.Payment, error) {
	amount := input.Amount.Decimal.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrPaymentInvalidAmount
	}

	var created *models.Payment
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		client, err := s.clientRepo.WithTx(tx).GetByIDForUpdate(input.ClientID)
		if err != nil {
			return err
		}
		if client == nil || client.TenantID != tenantID {
			return ErrClientNotFound
		}
		if amount.GreaterThan(client.Debt.Decimal.Round(2)) {
			return ErrPaymentExceedsDebt
		}

		now := time.Now()
		payment := &models.Payment{
			TenantID:  tenantID,
			ClientID:  client.ID,
			Amount:    models.NewMoneyFromDecimal(amount),
			Note:      input.Note,
			CreatedBy: input.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			return ErrPaymentCreateFailed
		}

		next := client.Debt.Decimal.Sub(amount).Round(2)
		if next.LessThan(decimal.Zero) {
			next = decimal.Zero
		}
		client.Debt = models.NewMoneyFromDecimal(next)
		if err := s.clientRepo.WithTx(tx).Update(client); err != nil {
			return ErrDebtUpdateFailed
		}
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeletePayment removes a payment and restores the client's debt by
// the deleted amount, no re-validation
func (s *DebtService) DeletePayment(tenantID uint, paymentID uint) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.WithTx(tx).GetByID(paymentID)
		if err != nil {
			return err
		}
		if payment == nil || payment.TenantID != tenantID {
			return ErrPaymentNotFound
		}
		if err := s.AddDebtTx(tx, payment.ClientID, payment.Amount.Decimal); err != nil {
			return err
		}
		if err := s.paymentRepo.WithTx(tx).Delete(payment.ID); err != nil {
			return ErrPaymentDeleteFailed
		}
		return nil
	})
}

// ListPayments lists payments with pagination
func (s *DebtService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}
