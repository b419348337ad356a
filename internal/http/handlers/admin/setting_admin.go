package admin

import (
	"errors"

	"github.com/krishimart/krishimart/internal/http/response"
	"github.com/krishimart/krishimart/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminGetSettings 获取站点设置
func (h *Handler) AdminGetSettings(c *gin.Context) {
	cfg, err := h.SettingService.GetShopConfig()
	if err != nil {
		respondError(c, response.CodeInternal, "error.config_fetch_failed", err)
		return
	}

	response.Success(c, cfg)
}

// AdminUpdateSettings 更新站点设置
func (h *Handler) AdminUpdateSettings(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var updates map[string]string
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBindingError(c, err)
		return
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.SettingService.UpdateSettings(updates); err != nil {
		if errors.Is(err, service.ErrSettingInvalid) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.settings_update_failed", err)
		return
	}

	requestLog(c).Infow("admin_settings_updated",
		"admin_id", adminID,
		"keys", len(updates),
	)

	response.Success(c, gin.H{"updated": true})
}
