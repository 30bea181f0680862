package api

import (
	"strconv"
	"strings"

	"github.com/repartia/api/internal/http/response"
	"github.com/repartia/api/internal/repository"
	"github.com/repartia/api/internal/service"

	"github.com/gin-gonic/gin"
)

// LineCheckRequest one per-line delivery check
type LineCheckRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason"`
	Note      string `json:"note"`
}

// CheckLinesRequest batch per-line delivery update payload
type CheckLinesRequest struct {
	Checks []LineCheckRequest `json:"checks" binding:"required"`
}

// SetDeliveryRequest order-level delivery status payload
type SetDeliveryRequest struct {
	Status string `json:"status" binding:"required"`
}

// CheckOrderLines records per-line delivery checks and recomputes the
// order's delivery status
func (h *Handler) CheckOrderLines(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CheckLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid checks payload", err)
		return
	}

	checks := make([]service.LineCheckInput, 0, len(req.Checks))
	for _, check := range req.Checks {
		checks = append(checks, service.LineCheckInput{
			ProductID: check.ProductID,
			Delivered: check.Delivered,
			Reason:    strings.TrimSpace(check.Reason),
			Note:      strings.TrimSpace(check.Note),
		})
	}

	order, err := h.FulfillmentService.CheckLines(tenantID, orderID, checks, userID)
	if err != nil {
		respondWithMappedError(c, err, fulfillmentErrorRules, response.CodeInternal, "delivery update failed")
		return
	}
	requestLog(c).Infow("order_lines_checked",
		"order_id", order.ID, "status", order.Status, "checks", len(checks))
	response.Success(c, order)
}

// SetOrderDelivery sets the order-level delivery status directly
func (h *Handler) SetOrderDelivery(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "status required", err)
		return
	}

	order, err := h.FulfillmentService.SetOrderDelivery(tenantID, orderID, strings.TrimSpace(req.Status))
	if err != nil {
		respondWithMappedError(c, err, fulfillmentErrorRules, response.CodeInternal, "delivery update failed")
		return
	}
	response.Success(c, order)
}

// ListCredits lists credits with pagination and filters
func (h *Handler) ListCredits(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CreditListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		OnlyOpen: c.Query("only_open") == "true",
	}
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ClientID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("order_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.OrderID = uint(parsed)
		}
	}

	credits, total, err := h.FulfillmentService.ListCredits(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "credit fetch failed", err)
		return
	}
	response.SuccessWithPage(c, credits, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// FulfillCredit marks a pending credit as delivered
func (h *Handler) FulfillCredit(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	creditID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	credit, err := h.FulfillmentService.FulfillCredit(tenantID, creditID, userID)
	if err != nil {
		respondWithMappedError(c, err, fulfillmentErrorRules, response.CodeInternal, "credit update failed")
		return
	}
	requestLog(c).Infow("credit_fulfilled", "credit_id", credit.ID, "user_id", userID)
	response.Success(c, credit)
}
