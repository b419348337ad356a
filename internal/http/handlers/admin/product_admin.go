package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminProductRequest 商品写入请求 (Admin)
type AdminProductRequest struct {
	SupplierID    uint     `json:"supplier_id"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         string   `json:"price" binding:"required"`
	DiscountPrice *string  `json:"discount_price"`
	Unit          string   `json:"unit"`
	Stock         int      `json:"stock"`
	IsOrganic     bool     `json:"is_organic"`
	Origin        string   `json:"origin"`
	Images        []string `json:"images"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active"`
	SortOrder     int      `json:"sort_order"`
}

func (r AdminProductRequest) toServiceInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return service.ProductInput{}, service.ErrProductPriceInvalid
	}
	input := service.ProductInput{
		CategoryID:  r.CategoryID,
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Unit:        r.Unit,
		Stock:       r.Stock,
		IsOrganic:   r.IsOrganic,
		Origin:      r.Origin,
		Images:      r.Images,
		Tags:        r.Tags,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
	if r.DiscountPrice != nil && strings.TrimSpace(*r.DiscountPrice) != "" {
		discount, derr := decimal.NewFromString(strings.TrimSpace(*r.DiscountPrice))
		if derr != nil {
			return service.ProductInput{}, service.ErrDiscountPriceInvalid
		}
		input.DiscountPrice = &discount
	}
	return input, nil
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeBadRequest, "error.category_not_found", nil)
	case errors.Is(err, service.ErrProductSlugExists):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.Is(err, service.ErrProductPriceInvalid):
		respondFieldError(c, "price", "error.product_price_invalid")
	case errors.Is(err, service.ErrDiscountPriceInvalid):
		respondFieldError(c, "discount_price", "error.product_discount_invalid")
	case errors.Is(err, service.ErrProductUnitInvalid):
		respondError(c, response.CodeBadRequest, "error.product_unit_invalid", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 64); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if supplierID, err := strconv.ParseUint(c.Query("supplier_id"), 10, 64); err == nil {
		filter.SupplierID = uint(supplierID)
	}

	products, total, err := h.ProductService.ListAdmin(filter)
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

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	product, err := h.ProductService.GetByID(id)
	if err != nil {
		respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品 (Admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.toServiceInput()
	if err != nil {
		respondProductError(c, err)
		return
	}

	product, err := h.ProductService.Create(req.SupplierID, input)
	if err != nil {
		respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品 (Admin)
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	var req AdminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.toServiceInput()
	if err != nil {
		respondProductError(c, err)
		return
	}

	product, err := h.ProductService.Update(id, 0, input)
	if err != nil {
		respondProductError(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品 (Admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id, 0); err != nil {
		respondProductError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
