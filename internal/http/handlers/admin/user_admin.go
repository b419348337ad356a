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

// AdminUserStatusRequest 用户状态更新请求
type AdminUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminListUsers 管理端用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
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
	response.SuccessWithPage(c, users, pagination)
}

// AdminGetUser 管理端用户详情
func (h *Handler) AdminGetUser(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, user)
}

// AdminSetUserStatus 启用/禁用用户（禁用即时吊销已签发 Token）
func (h *Handler) AdminSetUserStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parsePathID(c)
	if !ok {
		return
	}

	var req AdminUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.UserService.SetStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrUserStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.user_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	requestLog(c).Infow("admin_user_status_updated",
		"user_id", user.ID,
		"admin_id", adminID,
		"status", user.Status,
	)

	response.Success(c, user)
}
