package admin

import (
	"strconv"
	"strings"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminListPayments 管理端支付记录列表
func (h *Handler) AdminListPayments(c *gin.Context) {
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

	filter := repository.PaymentListFilter{
		Page:        page,
		PageSize:    pageSize,
		Method:      strings.TrimSpace(c.Query("method")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}
	if orderID, perr := strconv.ParseUint(c.Query("order_id"), 10, 64); perr == nil {
		filter.OrderID = uint(orderID)
	}

	payments, total, err := h.PaymentService.ListPayments(filter)
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
	response.SuccessWithPage(c, payments, pagination)
}
