package api

import (
	"github.com/repartia/api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AssignOrderRequest manual assignment payload
type AssignOrderRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// AutoAssignRequest automatic assignment payload
type AutoAssignRequest struct {
	ExcludeUserID uint `json:"exclude_user_id"`
}

// AssignOrder assigns an order to a user
func (h *Handler) AssignOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "user_id required", err)
		return
	}

	order, err := h.AssignmentService.AssignOrder(tenantID, orderID, req.UserID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "assignment failed")
		return
	}
	requestLog(c).Infow("order_assigned", "order_id", order.ID, "user_id", req.UserID)
	response.Success(c, order)
}

// AutoAssignOrder picks a courier via the configured strategy
func (h *Handler) AutoAssignOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AutoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, "invalid payload", err)
		return
	}

	picked, err := h.AssignmentService.AutoAssign(tenantID, orderID, req.ExcludeUserID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "assignment failed")
		return
	}
	if picked == nil {
		response.SuccessWithMsg(c, "no eligible courier", nil)
		return
	}
	requestLog(c).Infow("order_auto_assigned", "order_id", orderID, "user_id", picked.ID)
	response.Success(c, picked)
}
