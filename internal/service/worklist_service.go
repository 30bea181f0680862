package service

import (
	"context"
	"sort"
	"time"

	"github.com/repartia/api/internal/cache"
	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/logger"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"
)

// WorkListEntry one stop on a field worker's daily list: a real
// assigned order, or a scheduled-route placeholder (order id 0, status
// pending) until an order exists for that client.
type WorkListEntry struct {
	OrderID     uint          `json:"order_id"`
	ClientID    uint          `json:"client_id"`
	ClientName  string        `json:"client_name"`
	Source      string        `json:"source"`
	Status      string        `json:"status"`
	VisitOrder  int           `json:"visit_order,omitempty"`
	TotalAmount *models.Money `json:"total_amount,omitempty"`
}

// WorkListService builds role-shaped daily work lists from assigned
// orders and recurring routes, with a short-lived redis day cache.
type WorkListService struct {
	orderRepo  repository.OrderRepository
	routeRepo  repository.RouteRepository
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
}

// NewWorkListService creates the work list service
func NewWorkListService(orderRepo repository.OrderRepository, routeRepo repository.RouteRepository, clientRepo repository.ClientRepository, userRepo repository.UserRepository) *WorkListService {
	return &WorkListService{
		orderRepo:  orderRepo,
		routeRepo:  routeRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
	}
}

// DailyList returns the user's work list for the given date, shaped by
// role flags: sellers who also deliver (and admins) get assigned
// orders merged with route placeholders, sellers only get routes,
// deliverers only get their assigned orders, anyone else gets nothing.
func (s *WorkListService) DailyList(ctx context.Context, tenantID, userID uint, date time.Time) ([]WorkListEntry, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, ErrUserNotFound
	}

	day := date.Format("2006-01-02")
	var cached []WorkListEntry
	hit, err := cache.GetWorkList(ctx, tenantID, userID, day, &cached)
	if err != nil {
		logger.Warnw("worklist_cache_read_failed",
			"tenant_id", tenantID, "user_id", userID, "error", err)
	}
	if hit {
		return cached, nil
	}

	entries, err := s.build(tenantID, user, date)
	if err != nil {
		return nil, err
	}
	if err := cache.SetWorkList(ctx, tenantID, userID, day, entries); err != nil {
		logger.Warnw("worklist_cache_write_failed",
			"tenant_id", tenantID, "user_id", userID, "error", err)
	}
	return entries, nil
}

// Rebuild recomputes and re-caches a user's list for one day; used by
// the worker after assignment changes
func (s *WorkListService) Rebuild(ctx context.Context, tenantID, userID uint, date time.Time) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.TenantID != tenantID {
		return ErrUserNotFound
	}
	entries, err := s.build(tenantID, user, date)
	if err != nil {
		return err
	}
	return cache.SetWorkList(ctx, tenantID, userID, date.Format("2006-01-02"), entries)
}

func (s *WorkListService) build(tenantID uint, user *models.User, date time.Time) ([]WorkListEntry, error) {
	merged := user.IsAdmin || (user.CanSell && user.CanDeliver)
	sellerOnly := user.CanSell && !user.CanDeliver && !user.IsAdmin
	delivererOnly := user.CanDeliver && !user.CanSell && !user.IsAdmin

	switch {
	case merged:
		return s.buildMerged(tenantID, user.ID, date)
	case sellerOnly:
		return s.buildRoutes(tenantID, user.ID, date, nil)
	case delivererOnly:
		return s.buildDeliveries(tenantID, user.ID, date)
	default:
		return []WorkListEntry{}, nil
	}
}

// buildMerged joins assigned orders with route placeholders; a
// scheduled client already covered by an assigned order keeps the
// order entry only.
func (s *WorkListService) buildMerged(tenantID, userID uint, date time.Time) ([]WorkListEntry, error) {
	dayStart, dayEnd := dayBounds(date)
	orders, err := s.orderRepo.ListAssignedOnDate(tenantID, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	covered := make(map[uint]struct{}, len(orders))
	for _, order := range orders {
		covered[order.ClientID] = struct{}{}
	}

	entries, err := s.orderEntries(orders)
	if err != nil {
		return nil, err
	}
	routeEntries, err := s.buildRoutes(tenantID, userID, date, covered)
	if err != nil {
		return nil, err
	}
	return append(entries, routeEntries...), nil
}

func (s *WorkListService) buildRoutes(tenantID, userID uint, date time.Time, excludeClients map[uint]struct{}) ([]WorkListEntry, error) {
	routes, err := s.routeRepo.ListForSellerWeekday(tenantID, userID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}

	clientIDs := make([]uint, 0, len(routes))
	for _, route := range routes {
		clientIDs = append(clientIDs, route.ClientID)
	}
	names, err := s.clientNames(clientIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]WorkListEntry, 0, len(routes))
	for _, route := range routes {
		if excludeClients != nil {
			if _, ok := excludeClients[route.ClientID]; ok {
				continue
			}
		}
		entries = append(entries, WorkListEntry{
			OrderID:    0,
			ClientID:   route.ClientID,
			ClientName: names[route.ClientID],
			Source:     constants.WorkListSourceRoute,
			Status:     constants.WorkListStatusPending,
			VisitOrder: route.VisitOrder,
		})
	}
	return entries, nil
}

// buildDeliveries lists a courier's orders for the day (created today
// or delivered today) sorted by client name.
func (s *WorkListService) buildDeliveries(tenantID, userID uint, date time.Time) ([]WorkListEntry, error) {
	dayStart, dayEnd := dayBounds(date)
	orders, err := s.orderRepo.ListAssignedOnDate(tenantID, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	entries, err := s.orderEntries(orders)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ClientName < entries[j].ClientName
	})
	return entries, nil
}

func (s *WorkListService) orderEntries(orders []models.Order) ([]WorkListEntry, error) {
	clientIDs := make([]uint, 0, len(orders))
	for _, order := range orders {
		clientIDs = append(clientIDs, order.ClientID)
	}
	names, err := s.clientNames(clientIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]WorkListEntry, 0, len(orders))
	for _, order := range orders {
		total := order.TotalAmount
		entries = append(entries, WorkListEntry{
			OrderID:     order.ID,
			ClientID:    order.ClientID,
			ClientName:  names[order.ClientID],
			Source:      constants.WorkListSourceOrder,
			Status:      order.Status,
			TotalAmount: &total,
		})
	}
	return entries, nil
}

func (s *WorkListService) clientNames(ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	clients, err := s.clientRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, client := range clients {
		names[client.ID] = client.Name
	}
	return names, nil
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}
