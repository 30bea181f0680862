package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/repartia/api/internal/http/response"
	"github.com/repartia/api/internal/models"
	"github.com/repartia/api/internal/repository"
	"github.com/repartia/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PackTierRequest one pack tier
type PackTierRequest struct {
	Quantity   int          `json:"quantity" binding:"required"`
	TotalPrice models.Money `json:"total_price"`
}

// ProductRequest product create/update payload
type ProductRequest struct {
	Name               string            `json:"name" binding:"required"`
	BasePrice          models.Money      `json:"base_price"`
	DiscountPercent    decimal.Decimal   `json:"discount_percent"`
	DiscountIndefinite bool              `json:"discount_indefinite"`
	DiscountExpiresAt  *time.Time        `json:"discount_expires_at"`
	IsActive           *bool             `json:"is_active"`
	Tiers              []PackTierRequest `json:"tiers"`
}

// SpecialPriceRequest per-client unit price override payload
type SpecialPriceRequest struct {
	ClientID  uint         `json:"client_id" binding:"required"`
	ProductID uint         `json:"product_id" binding:"required"`
	UnitPrice models.Money `json:"unit_price"`
}

func toProductInput(req ProductRequest) service.ProductInput {
	input := service.ProductInput{
		Name:               req.Name,
		BasePrice:          req.BasePrice,
		DiscountPercent:    req.DiscountPercent,
		DiscountIndefinite: req.DiscountIndefinite,
		DiscountExpiresAt:  req.DiscountExpiresAt,
		IsActive:           req.IsActive,
	}
	for _, tier := range req.Tiers {
		input.Tiers = append(input.Tiers, service.PackTierInput{
			Quantity:   tier.Quantity,
			TotalPrice: tier.TotalPrice,
		})
	}
	return input
}

// CreateProduct creates a product with its pack tiers
func (h *Handler) CreateProduct(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid product payload", err)
		return
	}

	product, err := h.ProductService.CreateProduct(tenantID, toProductInput(req))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product create failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct updates a product and replaces its pack tiers
func (h *Handler) UpdateProduct(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid product payload", err)
		return
	}

	product, err := h.ProductService.UpdateProduct(tenantID, productID, toProductInput(req))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product update failed")
		return
	}
	response.Success(c, product)
}

// GetProduct returns one product with its pack tiers
func (h *Handler) GetProduct(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetProduct(tenantID, productID)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "product fetch failed")
		return
	}
	response.Success(c, product)
}

// ListProducts lists products with pagination
func (h *Handler) ListProducts(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		TenantID:   tenantID,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: c.Query("only_active") == "true",
		WithTiers:  true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// SetSpecialPrice creates or replaces a client's unit price override
func (h *Handler) SetSpecialPrice(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}

	var req SpecialPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid special price payload", err)
		return
	}

	price, err := h.ProductService.SetSpecialPrice(tenantID, service.SpecialPriceInput{
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "special price update failed")
		return
	}
	response.Success(c, price)
}

// DeleteSpecialPrice removes a client's unit price override
func (h *Handler) DeleteSpecialPrice(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.ProductService.DeleteSpecialPrice(tenantID, clientID, productID); err != nil {
		respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "special price delete failed")
		return
	}
	response.Success(c, gin.H{"client_id": clientID, "product_id": productID})
}

// ListSpecialPrices lists a client's unit price overrides
func (h *Handler) ListSpecialPrices(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	prices, err := h.ProductService.ListSpecialPrices(tenantID, clientID)
	if err != nil {
		respondError(c, response.CodeInternal, "special price fetch failed", err)
		return
	}
	response.Success(c, prices)
}
