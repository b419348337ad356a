package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类写入请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r CategoryRequest) toServiceInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Image:       r.Image,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrCategorySlugExists):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.Is(err, service.ErrCategoryHasProducts):
		respondError(c, response.CodeBadRequest, "error.category_in_use", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categories, total, err := h.CategoryService.List(repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
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
	response.SuccessWithPage(c, categories, pagination)
}

// GetAdminCategory 获取分类详情 (Admin)
func (h *Handler) GetAdminCategory(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	category, err := h.CategoryService.GetByID(id)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, category)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	category, err := h.CategoryService.Create(req.toServiceInput())
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	category, err := h.CategoryService.Update(id, req.toServiceInput())
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除分类（仍挂有商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if err := h.CategoryService.Delete(id); err != nil {
		respondCategoryError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
