package public

import (
	"errors"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// VerifyPaymentRequest 支付回跳验签请求
type VerifyPaymentRequest struct {
	ProviderOrderID   string `json:"provider_order_id" binding:"required"`
	ProviderPaymentID string `json:"provider_payment_id" binding:"required"`
	Signature         string `json:"signature" binding:"required"`
}

// CreatePaymentOrder 为在线支付订单创建网关支付单
func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	info, err := h.PaymentService.CreatePaymentOrder(c.Request.Context(), orderID, uid)
	if err != nil {
		respondPaymentOrderError(c, err)
		return
	}

	requestLog(c).Infow("payment_order_created",
		"order_id", orderID,
		"user_id", uid,
		"provider_order_id", info.ProviderOrderID,
	)

	response.Success(c, info)
}

// VerifyPayment 支付回跳验签并确认订单
func (h *Handler) VerifyPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := h.PaymentService.VerifyPayment(service.VerifyPaymentInput{
		OrderID:           orderID,
		UserID:            uid,
		ProviderOrderID:   req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		Signature:         req.Signature,
	})
	if err != nil {
		respondPaymentOrderError(c, err)
		return
	}

	requestLog(c).Infow("payment_verified",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", uid,
	)

	response.Success(c, order)
}

// PaymentFailureRequest 支付失败上报请求
type PaymentFailureRequest struct {
	Reason string `json:"reason"`
}

// PaymentFailure 记录支付失败（订单保持待支付，可重试）
func (h *Handler) PaymentFailure(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	// 失败原因可选，允许空请求体
	var req PaymentFailureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}

	if err := h.PaymentService.RecordFailure(service.RecordFailureInput{
		OrderID: orderID,
		UserID:  uid,
		Reason:  req.Reason,
	}); err != nil {
		respondPaymentOrderError(c, err)
		return
	}

	requestLog(c).Infow("payment_failure_reported",
		"order_id", orderID,
		"user_id", uid,
	)

	response.Success(c, gin.H{"recorded": true})
}

// GetOrderPayment 查询订单支付记录
func (h *Handler) GetOrderPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	payment, err := h.PaymentService.GetPaymentByOrder(orderID, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrPaymentNotFound):
			respondError(c, response.CodeNotFound, "error.payment_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, payment)
}
