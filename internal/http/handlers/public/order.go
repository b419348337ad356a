package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 购物车结算请求
type CheckoutRequest struct {
	AddressID      uint   `json:"address_id" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
	Notes          string `json:"notes"`
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// PreviewCheckout 结算金额预览
func (h *Handler) PreviewCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	preview, err := h.OrderService.PreviewCheckout(uid)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, preview)
}

// Checkout 购物车结算下单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	idempotencyKey := strings.TrimSpace(req.IdempotencyKey)
	if idempotencyKey == "" {
		idempotencyKey = strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	}

	order, err := h.OrderService.Checkout(service.CheckoutInput{
		UserID:         uid,
		AddressID:      req.AddressID,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: idempotencyKey,
		Notes:          req.Notes,
		ClientIP:       c.ClientIP(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	requestLog(c).Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", uid,
		"payment_method", order.PaymentMethod,
		"total_amount", order.TotalAmount.String(),
	)

	response.Success(c, order)
}

// ListUserOrders 当前用户订单列表
func (h *Handler) ListUserOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetUserOrder 当前用户订单详情
func (h *Handler) GetUserOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByUser(id, uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, order)
}

// GetUserOrderByNo 按订单号查询当前用户订单
func (h *Handler) GetUserOrderByNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByUserOrderNo(orderNo, uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, order)
}

// ListUserOrderStatusLogs 当前用户订单状态轨迹
func (h *Handler) ListUserOrderStatusLogs(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	if _, err := h.OrderService.GetOrderByUser(id, uid); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	logs, err := h.OrderService.ListStatusLogs(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	response.Success(c, gin.H{"logs": logs})
}

// CancelUserOrder 用户取消待确认订单
func (h *Handler) CancelUserOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.CancelOrder(id, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderNotCancellable):
			respondError(c, response.CodeBadRequest, "error.order_cancel_not_allowed", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("order_cancelled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", uid,
	)

	response.Success(c, order)
}
