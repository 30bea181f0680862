package api

import (
	"errors"

	"github.com/repartia/api/internal/http/response"
	"github.com/repartia/api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a business error to its API response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderNoLines, code: response.CodeBadRequest, msg: "order needs at least one line"},
	{target: service.ErrOrderInvalidLine, code: response.CodeBadRequest, msg: "order line invalid"},
	{target: service.ErrOrderInvalidTotal, code: response.CodeBadRequest, msg: "order total must be positive"},
	{target: service.ErrOrderLineNotFound, code: response.CodeBadRequest, msg: "order line not found"},
	{target: service.ErrAllocationInvalid, code: response.CodeBadRequest, msg: "payment allocation invalid"},
	{target: service.ErrClientNotFound, code: response.CodeNotFound, msg: "client not found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
}

var fulfillmentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderLineNotFound, code: response.CodeBadRequest, msg: "order line not found"},
	{target: service.ErrOrderInvalidLine, code: response.CodeBadRequest, msg: "line check invalid"},
	{target: service.ErrOrderInvalidStatus, code: response.CodeBadRequest, msg: "delivery status invalid"},
	{target: service.ErrCreditNotFound, code: response.CodeNotFound, msg: "credit not found"},
	{target: service.ErrCreditAlreadyDelivered, code: response.CodeBadRequest, msg: "credit already delivered"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrClientNotFound, code: response.CodeNotFound, msg: "client not found"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, msg: "payment not found"},
	{target: service.ErrPaymentInvalidAmount, code: response.CodeBadRequest, msg: "payment amount must be positive"},
	{target: service.ErrPaymentExceedsDebt, code: response.CodeBadRequest, msg: "payment exceeds outstanding debt"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrProductInvalid, code: response.CodeBadRequest, msg: "product invalid"},
	{target: service.ErrProductTierInvalid, code: response.CodeBadRequest, msg: "pack tiers invalid"},
	{target: service.ErrClientNotFound, code: response.CodeNotFound, msg: "client not found"},
	{target: service.ErrClientInvalid, code: response.CodeBadRequest, msg: "client invalid"},
	{target: service.ErrSpecialPriceInvalid, code: response.CodeBadRequest, msg: "special price invalid"},
	{target: service.ErrSpecialPriceNotFound, code: response.CodeNotFound, msg: "special price not found"},
}

var routeErrorRules = []mappedHandlerError{
	{target: service.ErrRouteNotFound, code: response.CodeNotFound, msg: "route not found"},
	{target: service.ErrRouteInvalid, code: response.CodeBadRequest, msg: "route invalid"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrClientNotFound, code: response.CodeNotFound, msg: "client not found"},
}
