package api

import (
	"strconv"
	"strings"

	"github.com/repartia/api/internal/http/response"
	"github.com/repartia/api/internal/repository"
	"github.com/repartia/api/internal/service"

	"github.com/gin-gonic/gin"
)

// RouteRequest scheduled route create/update payload
type RouteRequest struct {
	SellerID   uint  `json:"seller_id" binding:"required"`
	ClientID   uint  `json:"client_id" binding:"required"`
	Weekday    int   `json:"weekday"`
	VisitOrder int   `json:"visit_order"`
	IsActive   *bool `json:"is_active"`
}

func toRouteInput(req RouteRequest) service.RouteInput {
	return service.RouteInput{
		SellerID:   req.SellerID,
		ClientID:   req.ClientID,
		Weekday:    req.Weekday,
		VisitOrder: req.VisitOrder,
		IsActive:   req.IsActive,
	}
}

// CreateRoute creates a scheduled route
func (h *Handler) CreateRoute(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid route payload", err)
		return
	}

	route, err := h.RouteService.CreateRoute(tenantID, toRouteInput(req))
	if err != nil {
		respondWithMappedError(c, err, routeErrorRules, response.CodeInternal, "route create failed")
		return
	}
	response.Success(c, route)
}

// UpdateRoute updates a scheduled route
func (h *Handler) UpdateRoute(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	routeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid route payload", err)
		return
	}

	route, err := h.RouteService.UpdateRoute(tenantID, routeID, toRouteInput(req))
	if err != nil {
		respondWithMappedError(c, err, routeErrorRules, response.CodeInternal, "route update failed")
		return
	}
	response.Success(c, route)
}

// DeleteRoute removes a scheduled route
func (h *Handler) DeleteRoute(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	routeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.RouteService.DeleteRoute(tenantID, routeID); err != nil {
		respondWithMappedError(c, err, routeErrorRules, response.CodeInternal, "route delete failed")
		return
	}
	response.Success(c, gin.H{"id": routeID})
}

// ListRoutes lists scheduled routes with pagination and filters
func (h *Handler) ListRoutes(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.RouteListFilter{
		Page:       page,
		PageSize:   pageSize,
		TenantID:   tenantID,
		OnlyActive: c.Query("only_active") == "true",
	}
	if raw := strings.TrimSpace(c.Query("seller_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.SellerID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.ClientID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("weekday")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 && parsed <= 6 {
			filter.Weekday = &parsed
		}
	}

	routes, total, err := h.RouteService.ListRoutes(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "route fetch failed", err)
		return
	}
	response.SuccessWithPage(c, routes, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
