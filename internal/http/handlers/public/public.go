package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/krishimart/krishimart/internal/cache"
	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	shopConfigCacheKey = "public:shop_config"
	shopConfigCacheTTL = 60 * time.Second
)

// GetShopConfig 获取公开站点配置
func (h *Handler) GetShopConfig(c *gin.Context) {
	var cached service.ShopConfig
	if hit, err := cache.GetJSON(c.Request.Context(), shopConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	cfg, err := h.SettingService.GetShopConfig()
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}

	_ = cache.SetJSON(c.Request.Context(), shopConfigCacheKey, cfg, shopConfigCacheTTL)
	response.Success(c, cfg)
}

// GetCategories 获取启用中的分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		OnlyActive:   true,
		WithCategory: true,
		OrderBy:      strings.TrimSpace(c.Query("sort")),
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 64); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if organic := strings.TrimSpace(c.Query("organic")); organic != "" {
		value := organic == "true" || organic == "1"
		filter.IsOrganic = &value
	}
	if c.Query("in_stock") == "true" {
		filter.OnlyInStock = true
	}
	if minPrice, err := models.NewMoneyFromString(c.Query("min_price")); err == nil && c.Query("min_price") != "" {
		filter.MinPrice = &minPrice
	}
	if maxPrice, err := models.NewMoneyFromString(c.Query("max_price")); err == nil && c.Query("max_price") != "" {
		filter.MaxPrice = &maxPrice
	}

	products, total, err := h.ProductService.ListPublic(filter)
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
	response.SuccessWithPage(c, products, pagination)
}

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, product)
}

// GetProductReviews 获取商品可见评价列表
func (h *Handler) GetProductReviews(c *gin.Context) {
	product, err := h.ProductService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByProduct(product.ID, page, pageSize)
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
