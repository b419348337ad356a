package public

import (
	"errors"
	"strconv"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart 获取购物车汇总
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}

	response.Success(c, summary)
}

// UpsertCartItem 添加/更新购物车项（数量归零等价于移除）
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if req.Quantity <= 0 {
		if err := h.CartService.RemoveItem(uid, req.ProductID); err != nil && !errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeInternal, "error.cart_update_failed", err)
			return
		}
		response.Success(c, gin.H{"updated": true})
		return
	}

	err := h.CartService.UpsertItem(service.UpsertCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrProductNotAvailable):
			respondError(c, response.CodeBadRequest, "error.product_not_available", nil)
		case errors.Is(err, service.ErrStockInsufficient):
			respondError(c, response.CodeBadRequest, "error.cart_stock_insufficient", nil)
		case errors.Is(err, service.ErrCartItemInvalid):
			respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}

// RemoveCartItem 移除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.CartService.RemoveItem(uid, uint(productID)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}

	response.Success(c, gin.H{"cleared": true})
}
