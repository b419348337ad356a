package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminOrderStatusRequest 管理端订单状态更新请求
type AdminOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}
	if userID, perr := strconv.ParseUint(c.Query("user_id"), 10, 64); perr == nil {
		filter.UserID = uint(userID)
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
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

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(id)
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

// AdminListOrderStatusLogs 管理端订单状态轨迹
func (h *Handler) AdminListOrderStatusLogs(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	if _, err := h.OrderService.GetOrderForAdmin(id); err != nil {
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

// AdminUpdateOrderStatus 管理端推进/取消订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	var req AdminOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(id, req.Status, constants.ActorTypeAdmin, adminID, req.Note)
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

	requestLog(c).Infow("admin_order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"admin_id", adminID,
		"status", order.Status,
	)

	response.Success(c, order)
}
