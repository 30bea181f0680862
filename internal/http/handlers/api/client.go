package api

import (
	"strconv"
	"strings"

	"github.com/repartia/api/internal/http/response"
	"github.com/repartia/api/internal/repository"
	"github.com/repartia/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ClientRequest client create/update payload
type ClientRequest struct {
	Name            string          `json:"name" binding:"required"`
	Address         string          `json:"address"`
	Phone           string          `json:"phone"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func toClientInput(req ClientRequest) service.ClientInput {
	return service.ClientInput{
		Name:            req.Name,
		Address:         req.Address,
		Phone:           req.Phone,
		DiscountPercent: req.DiscountPercent,
	}
}

// CreateClient creates a client
func (h *Handler) CreateClient(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid client payload", err)
		return
	}

	client, err := h.ClientService.CreateClient(tenantID, toClientInput(req))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "client create failed")
		return
	}
	response.Success(c, client)
}

// UpdateClient updates a client's profile
func (h *Handler) UpdateClient(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid client payload", err)
		return
	}

	client, err := h.ClientService.UpdateClient(tenantID, clientID, toClientInput(req))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "client update failed")
		return
	}
	response.Success(c, client)
}

// GetClient returns one client
func (h *Handler) GetClient(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.ClientService.GetClient(tenantID, clientID)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "client fetch failed")
		return
	}
	response.Success(c, client)
}

// ListClients lists clients with pagination
func (h *Handler) ListClients(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	clients, total, err := h.ClientService.ListClients(repository.ClientListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		Search:   strings.TrimSpace(c.Query("search")),
		WithDebt: c.Query("with_debt") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "client fetch failed", err)
		return
	}
	response.SuccessWithPage(c, clients, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
