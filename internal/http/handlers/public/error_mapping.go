package public

import (
	"errors"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest, key: "error.cart_stock_insufficient"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, key: "error.address_required"},
	{target: service.ErrAddressNotFound, code: response.CodeBadRequest, key: "error.address_not_found"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid"},
	{target: service.ErrIdempotencyKeyRequired, code: response.CodeBadRequest, key: "error.idempotency_key_required"},
}

var paymentOrderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
	{target: service.ErrPaymentNotRequired, code: response.CodeBadRequest, key: "error.payment_not_required"},
	{target: service.ErrPaymentAlreadyCompleted, code: response.CodeBadRequest, key: "error.payment_already_completed"},
	{target: service.ErrOrderTransitionInvalid, code: response.CodeBadRequest, key: "error.payment_status_invalid"},
	{target: service.ErrPaymentSignatureInvalid, code: response.CodeBadRequest, key: "error.payment_signature_invalid"},
	{target: service.ErrPaymentGatewayNotConfigured, code: response.CodeInternal, key: "error.payment_config_invalid"},
}

var reviewCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest, key: "error.review_rating_invalid"},
	{target: service.ErrReviewCommentTooLong, code: response.CodeBadRequest, key: "error.review_comment_too_long"},
	{target: service.ErrReviewNotAllowed, code: response.CodeBadRequest, key: "error.review_order_not_delivered"},
	{target: service.ErrReviewExists, code: response.CodeBadRequest, key: "error.review_exists"},
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondPaymentOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentOrderErrorRules, response.CodeInternal, "error.payment_invalid")
}

func respondReviewCreateError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrReviewCommentRequired) {
		respondFieldError(c, "comment", "error.review_comment_required")
		return
	}
	respondWithMappedError(c, err, reviewCreateErrorRules, response.CodeInternal, "error.internal")
}
