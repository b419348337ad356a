package admin

import (
	"errors"
	"strconv"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminReviewVisibilityRequest 评价可见性更新请求
type AdminReviewVisibilityRequest struct {
	IsVisible *bool `json:"is_visible" binding:"required"`
}

// AdminListReviews 管理端评价列表
func (h *Handler) AdminListReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ReviewListFilter{
		Page:        page,
		PageSize:    pageSize,
		WithUser:    true,
		WithProduct: true,
	}
	if productID, err := strconv.ParseUint(c.Query("product_id"), 10, 64); err == nil {
		filter.ProductID = uint(productID)
	}
	if userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64); err == nil {
		filter.UserID = uint(userID)
	}
	if rating, err := strconv.Atoi(c.Query("rating")); err == nil {
		filter.Rating = rating
	}

	reviews, total, err := h.ReviewService.ListForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, reviews, pagination)
}

// AdminSetReviewVisibility 显示/隐藏评价（隐藏后重算商品评分）
func (h *Handler) AdminSetReviewVisibility(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	var req AdminReviewVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsVisible == nil {
		respondBindingError(c, err)
		return
	}

	review, err := h.ReviewService.SetVisibility(id, *req.IsVisible)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, review)
}

// AdminDeleteReview 删除评价
func (h *Handler) AdminDeleteReview(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(id, 0); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
