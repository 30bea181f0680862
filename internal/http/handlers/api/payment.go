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

// CreatePaymentRequest debt payment payload
type CreatePaymentRequest struct {
	Amount models.Money `json:"amount"`
	Note   string       `json:"note"`
}

// CreateClientPayment records a payment against a client's debt
func (h *Handler) CreateClientPayment(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid payment payload", err)
		return
	}

	payment, err := h.DebtService.CreatePayment(tenantID, service.CreatePaymentInput{
		ClientID:  clientID,
		Amount:    req.Amount,
		Note:      strings.TrimSpace(req.Note),
		CreatedBy: userID,
	})
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "payment create failed")
		return
	}
	requestLog(c).Infow("payment_created",
		"payment_id", payment.ID, "client_id", clientID, "amount", payment.Amount.String())
	response.Success(c, payment)
}

// ListClientPayments lists a client's payments with pagination
func (h *Handler) ListClientPayments(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	payments, total, err := h.DebtService.ListPayments(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		ClientID: clientID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "payment fetch failed", err)
		return
	}
	response.SuccessWithPage(c, payments, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// DeletePayment removes a payment and restores the client's debt
func (h *Handler) DeletePayment(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.DebtService.DeletePayment(tenantID, paymentID); err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "payment delete failed")
		return
	}
	requestLog(c).Infow("payment_deleted", "payment_id", paymentID)
	response.Success(c, gin.H{"id": paymentID})
}
