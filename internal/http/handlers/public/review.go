package public

import (
	"errors"
	"strconv"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	ProductID uint     `json:"product_id" binding:"required"`
	OrderID   uint     `json:"order_id" binding:"required"`
	Rating    int      `json:"rating" binding:"required"`
	Title     string   `json:"title"`
	Comment   string   `json:"comment" binding:"required"`
	Images    []string `json:"images"`
}

// CreateReview 创建商品评价（仅限已送达订单）
func (h *Handler) CreateReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	review, err := h.ReviewService.Create(service.CreateReviewInput{
		UserID:    uid,
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Images:    req.Images,
	})
	if err != nil {
		respondReviewCreateError(c, err)
		return
	}

	requestLog(c).Infow("review_created",
		"review_id", review.ID,
		"product_id", review.ProductID,
		"order_id", review.OrderID,
		"user_id", uid,
		"rating", review.Rating,
	)

	response.Success(c, review)
}

// UpdateReviewRequest 更新评价请求
type UpdateReviewRequest struct {
	Rating  int      `json:"rating" binding:"required"`
	Title   string   `json:"title"`
	Comment string   `json:"comment" binding:"required"`
	Images  []string `json:"images"`
}

// UpdateMyReview 更新当前用户自己的评价
func (h *Handler) UpdateMyReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	review, err := h.ReviewService.Update(uint(id), uid, service.UpdateReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
		Images:  req.Images,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
		case errors.Is(err, service.ErrReviewRatingInvalid):
			respondError(c, response.CodeBadRequest, "error.review_rating_invalid", nil)
		case errors.Is(err, service.ErrReviewCommentRequired):
			respondFieldError(c, "comment", "error.review_comment_required")
		case errors.Is(err, service.ErrReviewCommentTooLong):
			respondError(c, response.CodeBadRequest, "error.review_comment_too_long", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, review)
}

// ListReviewableProducts 已送达订单中可评价的商品列表
func (h *Handler) ListReviewableProducts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	items, err := h.ReviewService.ListReviewableByOrder(orderID, uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrReviewNotAllowed):
			respondError(c, response.CodeBadRequest, "error.review_order_not_delivered", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{"items": items})
}

// ListMyReviews 当前用户评价列表
func (h *Handler) ListMyReviews(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByUser(uid, page, pageSize)
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

// DeleteMyReview 删除当前用户自己的评价
func (h *Handler) DeleteMyReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.ReviewService.Delete(uint(id), uid); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			respondError(c, response.CodeNotFound, "error.review_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
