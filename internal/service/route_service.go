package service

import (
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"
)

// RouteService recurring visit schedule CRUD.
type RouteService struct {
	routeRepo  repository.RouteRepository
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
}

// RouteInput scheduled route create/update input
type RouteInput struct {
	SellerID   uint
	ClientID   uint
	Weekday    int // time.Weekday: 0 = Sunday
	VisitOrder int
	IsActive   *bool
}

// NewRouteService creates the route service
func NewRouteService(routeRepo repository.RouteRepository, clientRepo repository.ClientRepository, userRepo repository.UserRepository) *RouteService {
	return &RouteService{
		routeRepo:  routeRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
	}
}

func (s *RouteService) validate(tenantID uint, input RouteInput) error {
	if input.Weekday < 0 || input.Weekday > 6 || input.VisitOrder < 0 {
		return ErrRouteInvalid
	}
	seller, err := s.userRepo.GetByID(input.SellerID)
	if err != nil {
		return err
	}
	if seller == nil || seller.TenantID != tenantID {
		return ErrUserNotFound
	}
	client, err := s.clientRepo.GetByID(input.ClientID)
	if err != nil {
		return err
	}
	if client == nil || client.TenantID != tenantID {
		return ErrClientNotFound
	}
	return nil
}

// CreateRoute creates a scheduled route
func (s *RouteService) CreateRoute(tenantID uint, input RouteInput) (*models.ScheduledRoute, error) {
	if err := s.validate(tenantID, input); err != nil {
		return nil, err
	}
	route := &models.ScheduledRoute{
		TenantID:   tenantID,
		SellerID:   input.SellerID,
		ClientID:   input.ClientID,
		Weekday:    input.Weekday,
		VisitOrder: input.VisitOrder,
		IsActive:   true,
	}
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}
	if err := s.routeRepo.Create(route); err != nil {
		return nil, err
	}
	return route, nil
}

// UpdateRoute updates a scheduled route
func (s *RouteService) UpdateRoute(tenantID, routeID uint, input RouteInput) (*models.ScheduledRoute, error) {
	route, err := s.routeRepo.GetByID(routeID)
	if err != nil {
		return nil, err
	}
	if route == nil || route.TenantID != tenantID {
		return nil, ErrRouteNotFound
	}
	if err := s.validate(tenantID, input); err != nil {
		return nil, err
	}
	route.SellerID = input.SellerID
	route.ClientID = input.ClientID
	route.Weekday = input.Weekday
	route.VisitOrder = input.VisitOrder
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}
	if err := s.routeRepo.Update(route); err != nil {
		return nil, err
	}
	return route, nil
}

// DeleteRoute removes a scheduled route
func (s *RouteService) DeleteRoute(tenantID, routeID uint) error {
	route, err := s.routeRepo.GetByID(routeID)
	if err != nil {
		return err
	}
	if route == nil || route.TenantID != tenantID {
		return ErrRouteNotFound
	}
	return s.routeRepo.Delete(route.ID)
}

// ListRoutes lists scheduled routes with pagination
func (s *RouteService) ListRoutes(filter repository.RouteListFilter) ([]models.ScheduledRoute, int64, error) {
	return s.routeRepo.List(filter)
}
