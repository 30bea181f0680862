package service

import (
	"strings"

	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"

	"github.com/shopspring/decimal"
)

// ClientService client directory CRUD.
type ClientService struct {
	clientRepo repository.ClientRepository
}

// ClientInput client create/update input
type ClientInput struct {
	Name            string
	Address         string
	Phone           string
	DiscountPercent decimal.Decimal
}

// NewClientService creates the client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

func validateClientInput(input ClientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrClientInvalid
	}
	if input.DiscountPercent.LessThan(decimal.Zero) || input.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrClientInvalid
	}
	return nil
}

// CreateClient creates a client with zero debt
func (s *ClientService) CreateClient(tenantID uint, input ClientInput) (*models.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}
	client := &models.Client{
		TenantID:        tenantID,
		Name:            strings.TrimSpace(input.Name),
		Address:         strings.TrimSpace(input.Address),
		Phone:           strings.TrimSpace(input.Phone),
		Debt:            models.NewMoneyFromDecimal(decimal.Zero),
		DiscountPercent: input.DiscountPercent,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClient updates a client's profile fields; debt only moves
// through the ledger
func (s *ClientService) UpdateClient(tenantID, clientID uint, input ClientInput) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.TenantID != tenantID {
		return nil, ErrClientNotFound
	}
	if err := validateClientInput(input); err != nil {
		return nil, err
	}
	client.Name = strings.TrimSpace(input.Name)
	client.Address = strings.TrimSpace(input.Address)
	client.Phone = strings.TrimSpace(input.Phone)
	client.DiscountPercent = input.DiscountPercent
	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient gets a tenant's client
func (s *ClientService) GetClient(tenantID, clientID uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.TenantID != tenantID {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// ListClients lists clients with pagination
func (s *ClientService) ListClients(filter repository.ClientListFilter) ([]models.Client, int64, error) {
	return s.clientRepo.List(filter)
}
