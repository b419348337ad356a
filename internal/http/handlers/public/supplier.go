package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SupplierProductRequest 供应商商品写入请求
type SupplierProductRequest struct {
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

// SupplierOrderStatusRequest 供应商订单状态更新请求
type SupplierOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (r SupplierProductRequest) toServiceInput() (service.ProductInput, error) {
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

func respondSupplierProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrNotProductOwner):
		respondError(c, response.CodeForbidden, "error.product_not_owned", nil)
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

// ListSupplierProducts 供应商自己的商品列表
func (h *Handler) ListSupplierProducts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	products, total, err := h.ProductService.ListBySupplier(uid, repository.ProductListFilter{
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
	response.SuccessWithPage(c, products, pagination)
}

// CreateSupplierProduct 供应商创建商品
func (h *Handler) CreateSupplierProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req SupplierProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.toServiceInput()
	if err != nil {
		respondSupplierProductError(c, err)
		return
	}

	product, err := h.ProductService.Create(uid, input)
	if err != nil {
		respondSupplierProductError(c, err)
		return
	}

	requestLog(c).Infow("supplier_product_created",
		"product_id", product.ID,
		"supplier_id", uid,
		"slug", product.Slug,
	)

	response.Success(c, product)
}

// UpdateSupplierProduct 供应商更新自己的商品
func (h *Handler) UpdateSupplierProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req SupplierProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.toServiceInput()
	if err != nil {
		respondSupplierProductError(c, err)
		return
	}

	product, err := h.ProductService.Update(uint(id), uid, input)
	if err != nil {
		respondSupplierProductError(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteSupplierProduct 供应商下架删除自己的商品
func (h *Handler) DeleteSupplierProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.ProductService.Delete(uint(id), uid); err != nil {
		respondSupplierProductError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ListSupplierOrders 含供应商商品的订单列表
func (h *Handler) ListSupplierOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersForSupplier(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		SupplierID: uid,
		Status:     strings.TrimSpace(c.Query("status")),
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

// GetSupplierOrder 供应商订单详情
func (h *Handler) GetSupplierOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForSupplier(id, uid)
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

// UpdateSupplierOrderStatus 供应商推进订单履约状态
func (h *Handler) UpdateSupplierOrderStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req SupplierOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if _, err := h.OrderService.GetOrderForSupplier(id, uid); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(id, req.Status, constants.ActorTypeSupplier, uid, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderTransitionInvalid):
			respondError(c, response.CodeBadRequest, "error.order_transition_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.order_update_failed", err)
		}
		return
	}

	requestLog(c).Infow("supplier_order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"supplier_id", uid,
		"status", order.Status,
	)

	response.Success(c, order)
}
