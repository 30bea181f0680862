package api

import (
	"strconv"
	"strings"

	"github.com/repartia/api/internal/http/response"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"
	"github.com/repartia/api/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderLineRequest one order line
type OrderLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AllocationRequest how much of the order one payment method covers
type AllocationRequest struct {
	Method string       `json:"method" binding:"required"`
	Amount models.Money `json:"amount"`
}

// CreateOrderRequest order creation payload
type CreateOrderRequest struct {
	ClientID    uint                `json:"client_id" binding:"required"`
	AssignedTo  *uint               `json:"assigned_to"`
	Lines       []OrderLineRequest  `json:"lines" binding:"required"`
	Allocations []AllocationRequest `json:"allocations"`
}

// UpdateOrderRequest order update payload; lines and allocations are
// replaced wholesale
type UpdateOrderRequest struct {
	Lines       []OrderLineRequest  `json:"lines" binding:"required"`
	Allocations []AllocationRequest `json:"allocations"`
}

func toLineInputs(lines []OrderLineRequest) []service.OrderLineInput {
	out := make([]service.OrderLineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, service.OrderLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return out
}

func toAllocationInputs(allocations []AllocationRequest) []service.AllocationInput {
	out := make([]service.AllocationInput, 0, len(allocations))
	for _, allocation := range allocations {
		out = append(out, service.AllocationInput{
			Method: allocation.Method,
			Amount: allocation.Amount,
		})
	}
	return out
}

// CreateOrder prices and persists a new order
func (h *Handler) CreateOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid order payload", err)
		return
	}

	order, err := h.OrderService.CreateOrder(tenantID, service.CreateOrderInput{
		ClientID:    req.ClientID,
		CreatedBy:   userID,
		AssignedTo:  req.AssignedTo,
		Lines:       toLineInputs(req.Lines),
		Allocations: toAllocationInputs(req.Allocations),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order create failed")
		return
	}
	requestLog(c).Infow("order_created",
		"order_id", order.ID, "client_id", order.ClientID, "total", order.TotalAmount.String())
	response.Success(c, order)
}

// GetOrder returns one order with lines and allocations
func (h *Handler) GetOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(tenantID, orderID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, order)
}

// ListOrders lists orders with pagination and filters
func (h *Handler) ListOrders(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_from", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_to", err)
		return
	}

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		TenantID:    tenantID,
		Status:      strings.TrimSpace(c.Query("status")),
		Unassigned:  c.Query("unassigned") == "true",
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ClientID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("assigned_to")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.AssignedTo = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// UpdateOrder replaces an order's lines and allocations and reprices it
func (h *Handler) UpdateOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid order payload", err)
		return
	}

	order, err := h.OrderService.UpdateOrder(tenantID, orderID, service.UpdateOrderInput{
		Lines:       toLineInputs(req.Lines),
		Allocations: toAllocationInputs(req.Allocations),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order update failed")
		return
	}
	requestLog(c).Infow("order_updated", "order_id", order.ID, "total", order.TotalAmount.String())
	response.Success(c, order)
}

// DeleteOrder removes an order, reversing its account debt
func (h *Handler) DeleteOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.OrderService.DeleteOrder(tenantID, orderID); err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "order delete failed")
		return
	}
	requestLog(c).Infow("order_deleted", "order_id", orderID)
	response.Success(c, gin.H{"id": orderID})
}
